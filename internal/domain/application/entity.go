package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSaved        Status = "saved"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffered      Status = "offered"
	StatusRejected     Status = "rejected"
	StatusAccepted     Status = "accepted"
	StatusDeclined     Status = "declined"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusSaved,
	StatusApplied,
	StatusInterviewing,
	StatusOffered,
	StatusRejected,
	StatusAccepted,
	StatusDeclined,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// StatusOneOf renders the statuses for a validator "oneof" tag.
func StatusOneOf() string {
	parts := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, " ")
}

// DateLayout is the calendar-date format of application_date.
const DateLayout = "2006-01-02"

func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
}

type Application struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Company         string
	JobTitle        string
	Status          Status
	ApplicationDate time.Time
	JobDescription  *string
	JobURL          *string
	SalaryMin       *float64
	SalaryMax       *float64
	Notes           *string
	ContactName     *string
	ContactEmail    *string
	ContactPhone    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
