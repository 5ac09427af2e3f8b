package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FirstName is the greeting name shown on the dashboard header.
func (u User) FirstName() string {
	fields := strings.Fields(u.FullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
