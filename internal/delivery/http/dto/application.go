package dto

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationRequest is the body of create and update. Omitted fields are
// left untouched on update; "" clears an optional one.
type ApplicationRequest struct {
	Company         *string     `json:"company"`
	JobTitle        *string     `json:"job_title"`
	Status          *string     `json:"status"`
	ApplicationDate *string     `json:"application_date"`
	JobDescription  *string     `json:"job_description"`
	JobURL          *string     `json:"job_url"`
	SalaryMin       *FlexString `json:"salary_min"`
	SalaryMax       *FlexString `json:"salary_max"`
	Notes           *string     `json:"notes"`
	ContactName     *string     `json:"contact_name"`
	ContactEmail    *string     `json:"contact_email"`
	ContactPhone    *string     `json:"contact_phone"`
}

type ValidateFieldRequest struct {
	Field string     `json:"field"`
	Value FlexString `json:"value"`
}

type ValidateFieldResponse struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type ApplicationResponse struct {
	ID              uuid.UUID `json:"id"`
	Company         string    `json:"company"`
	JobTitle        string    `json:"job_title"`
	Status          string    `json:"status"`
	ApplicationDate string    `json:"application_date"`
	JobDescription  *string   `json:"job_description"`
	JobURL          *string   `json:"job_url"`
	SalaryMin       *float64  `json:"salary_min"`
	SalaryMax       *float64  `json:"salary_max"`
	Notes           *string   `json:"notes"`
	ContactName     *string   `json:"contact_name"`
	ContactEmail    *string   `json:"contact_email"`
	ContactPhone    *string   `json:"contact_phone"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
