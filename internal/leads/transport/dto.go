package transport

import (
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/parser"

	"github.com/google/uuid"
)

// Request DTOs
type ParseContactRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type NormalizePhoneRequest struct {
	Phone  string `json:"phone" validate:"required,max=40"`
	Target string `json:"target" validate:"omitempty,oneof=storage messaging display"`
}

type ValidatePhoneRequest struct {
	Phone string `json:"phone" validate:"required,max=40"`
}

type CreateLeadRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Phone  string `json:"phone" validate:"required,trphone"`
	Region string `json:"region,omitempty" validate:"max=100"`
	City   string `json:"city,omitempty" validate:"max=100"`
	Source string `json:"source,omitempty" validate:"omitempty,oneof=whatsapp phone referral social_media website other"`
	Notes  string `json:"notes,omitempty" validate:"max=1000"`
}

type CreateLeadFromTextRequest struct {
	Text   string `json:"text" validate:"required,max=10000"`
	Name   string `json:"name,omitempty" validate:"max=100"`
	Phone  string `json:"phone,omitempty" validate:"omitempty,trphone"`
	Region string `json:"region,omitempty" validate:"max=100"`
	City   string `json:"city,omitempty" validate:"max=100"`
	Source string `json:"source,omitempty" validate:"omitempty,oneof=whatsapp phone referral social_media website other"`
	Notes  string `json:"notes,omitempty" validate:"max=1000"`
}

type LogCallRequest struct {
	Disposition     string     `json:"disposition" validate:"required,oneof=answered busy no_answer unreachable wrong_number callback_requested"`
	Notes           string     `json:"notes,omitempty" validate:"max=500"`
	DurationSeconds int        `json:"durationSeconds" validate:"min=0,max=3600"`
	CallbackAt      *time.Time `json:"callbackAt,omitempty"`
}

type LogWhatsAppRequest struct {
	TemplateCode string `json:"templateCode" validate:"required,max=64"`
	Message      string `json:"message" validate:"required,max=4096"`
}

type SendWhatsAppRequest struct {
	TemplateCode string            `json:"templateCode" validate:"required,max=64"`
	Variables    map[string]string `json:"variables,omitempty"`
}

type ScheduleAppointmentRequest struct {
	AppointmentAt time.Time `json:"appointmentAt" validate:"required"`
	Notes         string    `json:"notes,omitempty" validate:"max=1000"`
}

type SetStatusRequest struct {
	StatusCode string `json:"statusCode" validate:"required,max=64"`
	Note       string `json:"note,omitempty" validate:"max=1000"`
}

type AddNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

type BulkStatusRequest struct {
	LeadIDs    []uuid.UUID `json:"leadIds" validate:"required,min=1,max=200"`
	StatusCode string      `json:"statusCode" validate:"required,max=64"`
	Note       string      `json:"note,omitempty" validate:"max=1000"`
}

// Response DTOs
type NormalizePhoneResponse struct {
	Phone  string `json:"phone"`
	Target string `json:"target"`
}

type ValidatePhoneResponse struct {
	Valid bool `json:"valid"`
}

type ParseContactResponse struct {
	parser.ParsedContact
}

type CreateLeadFromTextResponse struct {
	Lead   domain.Lead          `json:"lead"`
	Parsed parser.ParsedContact `json:"parsed"`
}

type StatusListResponse struct {
	Items []domain.StatusDefinition `json:"items"`
}

type EventListResponse struct {
	Items []domain.ContactEvent `json:"items"`
}

type TemplateListResponse struct {
	Items []domain.WhatsAppTemplate `json:"items"`
}
