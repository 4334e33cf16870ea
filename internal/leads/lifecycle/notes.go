package lifecycle

import (
	"context"
	"time"
	"unicode/utf8"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	maxNoteLength = 2000
	reminderNote  = "Randevu hatırlatması"
)

// AddNote appends a free-text note to the lead's history.
func (e *Engine) AddNote(ctx context.Context, leadID uuid.UUID, body string) (domain.ContactEvent, error) {
	body = sanitize.Text(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > maxNoteLength {
		return domain.ContactEvent{}, apperr.Validation("note body must be between 1 and 2000 characters")
	}

	var note domain.ContactEvent
	err := e.store.WithLead(ctx, leadID, func(ctx context.Context, tx repository.LeadTx) error {
		if _, err := tx.LoadLead(ctx, leadID); err != nil {
			return err
		}
		note = e.newEvent(leadID, domain.EventNote, e.now())
		note.Note = body
		return tx.AppendEvent(ctx, note)
	})
	if err != nil {
		return domain.ContactEvent{}, mapStoreErr(err)
	}
	return note, nil
}

// RecordAppointmentReminder notes that a reminder for the appointment at
// appointmentAt went out. It reports false, writing nothing, when the lead
// no longer has that appointment.
func (e *Engine) RecordAppointmentReminder(ctx context.Context, leadID uuid.UUID, appointmentAt time.Time) (bool, error) {
	recorded := false
	err := e.store.WithLead(ctx, leadID, func(ctx context.Context, tx repository.LeadTx) error {
		lead, err := tx.LoadLead(ctx, leadID)
		if err != nil {
			return err
		}
		if lead.AppointmentDate == nil || !lead.AppointmentDate.Truncate(time.Second).Equal(appointmentAt.Truncate(time.Second)) {
			return nil
		}
		if domain.IsTerminal(lead.StatusCode) {
			return nil
		}

		ev := e.newEvent(leadID, domain.EventNote, e.now())
		ev.Note = reminderNote
		ev.Metadata = map[string]any{"appointmentAt": appointmentAt.UTC().Format(time.RFC3339)}
		if err := tx.AppendEvent(ctx, ev); err != nil {
			return err
		}
		recorded = true
		return nil
	})
	if err != nil {
		return false, mapStoreErr(err)
	}
	return recorded, nil
}
