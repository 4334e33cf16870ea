// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a prospect enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	Source     string    `json:"source"`
	FromText   bool      `json:"fromText"`
	Confidence int       `json:"confidence,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// CallLogged is published after a call attempt is recorded.
type CallLogged struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Disposition string    `json:"disposition"`
	CallCount   int       `json:"callCount"`
	Duration    int       `json:"durationSeconds"`
}

func (e CallLogged) EventName() string { return "leads.call.logged" }

// LeadStatusChanged is published whenever a lead's pipeline status changes.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Reason     string    `json:"reason"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadEscalated is published when repeated failed calls close a lead.
type LeadEscalated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	FailedCalls int       `json:"failedCalls"`
}

func (e LeadEscalated) EventName() string { return "leads.lead.escalated" }

// WhatsAppSent is published after an outbound WhatsApp message is logged.
type WhatsAppSent struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	TemplateCode string    `json:"templateCode"`
}

func (e WhatsAppSent) EventName() string { return "leads.whatsapp.sent" }

// AppointmentScheduled is published when an appointment is booked.
type AppointmentScheduled struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	AppointmentAt time.Time `json:"appointmentAt"`
}

func (e AppointmentScheduled) EventName() string { return "leads.appointment.scheduled" }

// ContactParsed is published for every parsed contact text.
type ContactParsed struct {
	BaseEvent
	Confidence int `json:"confidence"`
}

func (e ContactParsed) EventName() string { return "leads.contact.parsed" }
