package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact event types.
const (
	EventCall         = "call"
	EventWhatsApp     = "whatsapp"
	EventStatusChange = "status_change"
	EventNote         = "note"
	EventAppointment  = "appointment"
)

// Call dispositions.
const (
	DispositionAnswered          = "answered"
	DispositionBusy              = "busy"
	DispositionNoAnswer          = "no_answer"
	DispositionUnreachable       = "unreachable"
	DispositionWrongNumber       = "wrong_number"
	DispositionCallbackRequested = "callback_requested"
)

var knownEventTypes = map[string]struct{}{
	EventCall:         {},
	EventWhatsApp:     {},
	EventStatusChange: {},
	EventNote:         {},
	EventAppointment:  {},
}

var knownDispositions = map[string]struct{}{
	DispositionAnswered:          {},
	DispositionBusy:              {},
	DispositionNoAnswer:          {},
	DispositionUnreachable:       {},
	DispositionWrongNumber:       {},
	DispositionCallbackRequested: {},
}

func IsKnownEventType(t string) bool {
	_, ok := knownEventTypes[t]
	return ok
}

func IsKnownDisposition(d string) bool {
	_, ok := knownDispositions[d]
	return ok
}

// ContactEvent is one immutable fact in a lead's history.
// Disposition is only set for call events. FromStatus and ToStatus are only
// set for status_change events and hold the resulting state.
type ContactEvent struct {
	ID          uuid.UUID      `json:"id"`
	LeadID      uuid.UUID      `json:"leadId"`
	Type        string         `json:"type"`
	Disposition string         `json:"disposition,omitempty"`
	Note        string         `json:"note,omitempty"`
	FromStatus  string         `json:"fromStatus,omitempty"`
	ToStatus    string         `json:"toStatus,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// IsUnreachableCall reports whether e is a call that never reached the prospect.
func (e ContactEvent) IsUnreachableCall() bool {
	return e.Type == EventCall && e.Disposition == DispositionUnreachable
}
