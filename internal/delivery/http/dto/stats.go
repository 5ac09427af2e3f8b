package dto

import "github.com/google/uuid"

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type RecentApplicationResponse struct {
	ID              uuid.UUID `json:"id"`
	Company         string    `json:"company"`
	JobTitle        string    `json:"job_title"`
	ApplicationDate string    `json:"application_date"`
	Status          string    `json:"status"`
}

type StatsSummaryResponse struct {
	Total            int `json:"total"`
	ActiveInterviews int `json:"active_interviews"`
	OffersReceived   int `json:"offers_received"`
	Recent           int `json:"recent"`
}

type StatsResponse struct {
	Total              int                         `json:"total"`
	ByStatus           []StatusCountResponse       `json:"by_status"`
	RecentApplications []RecentApplicationResponse `json:"recent_applications"`
	Summary            StatsSummaryResponse        `json:"summary"`
}
