package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead sources.
const (
	SourceWhatsApp    = "whatsapp"
	SourcePhone       = "phone"
	SourceReferral    = "referral"
	SourceSocialMedia = "social_media"
	SourceWebsite     = "website"
	SourceOther       = "other"
)

var knownSources = map[string]struct{}{
	SourceWhatsApp:    {},
	SourcePhone:       {},
	SourceReferral:    {},
	SourceSocialMedia: {},
	SourceWebsite:     {},
	SourceOther:       {},
}

func IsKnownSource(s string) bool {
	_, ok := knownSources[s]
	return ok
}

// Next actions written by the workflow.
const (
	NextActionAppointment = "Randevu"
	NextActionCallback    = "Geri arama"
)

// Lead is a prospect moving through the pipeline.
// StatusCode is empty only before the first classification.
type Lead struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Region          string     `json:"region,omitempty"`
	City            string     `json:"city,omitempty"`
	StatusCode      string     `json:"statusCode,omitempty"`
	CallCount       int        `json:"callCount"`
	LastContactAt   *time.Time `json:"lastContactAt,omitempty"`
	NextAction      string     `json:"nextAction,omitempty"`
	NextActionAt    *time.Time `json:"nextActionAt,omitempty"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	Source          string     `json:"source"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
