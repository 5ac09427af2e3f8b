package dto

import (
	"time"

	"github.com/google/uuid"
)

type ResumeResponse struct {
	ID                uuid.UUID `json:"id"`
	ProfileTitle      string    `json:"profile_title"`
	ResumeDescription *string   `json:"resume_description"`
	ResumeURL         *string   `json:"resume_url"`
	HasFile           bool      `json:"has_file"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
