package resume

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLength       = 20
	MaxDescriptionLength = 250
)

// AllowedExtensions are the document types accepted for upload.
var AllowedExtensions = []string{".pdf", ".doc", ".docx"}

func ExtensionAllowed(ext string) bool {
	for _, e := range AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

type Resume struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	ProfileTitle      string
	ResumeDescription *string
	ResumeURL         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r Resume) HasFile() bool {
	return r.ResumeURL != nil && *r.ResumeURL != ""
}
