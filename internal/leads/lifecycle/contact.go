package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/timeline"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	maxCallNotes       = 500
	maxCallDuration    = 3600
	whatsAppExcerptLen = 100
	appointmentNote    = "Randevu planlandı"
	whatsAppStatusNote = "WhatsApp mesajı gönderildi"
)

// turkeyTime renders dates the way agents read them. Turkey has no DST.
var turkeyTime = time.FixedZone("TRT", 3*60*60)

// CallInput describes a call attempt.
type CallInput struct {
	Disposition     string
	Notes           string
	DurationSeconds int
	// CallbackAt schedules a follow-up call; only valid with callback_requested.
	CallbackAt *time.Time
}

func (in CallInput) validate() error {
	if !domain.IsKnownDisposition(in.Disposition) {
		return apperr.Validation("invalid call disposition")
	}
	if utf8.RuneCountInString(in.Notes) > maxCallNotes {
		return apperr.Validation("call notes must be at most 500 characters")
	}
	if in.DurationSeconds < 0 || in.DurationSeconds > maxCallDuration {
		return apperr.Validation("call duration must be between 0 and 3600 seconds")
	}
	if in.CallbackAt != nil && in.Disposition != domain.DispositionCallbackRequested {
		return apperr.Validation("callbackAt requires the callback_requested disposition")
	}
	return nil
}

func callNote(notes string, duration, callCount int) string {
	if notes != "" {
		return fmt.Sprintf("%s (Süre: %ds, Toplam arama: %d)", notes, duration, callCount)
	}
	return fmt.Sprintf("Arama yapıldı (Süre: %ds, Toplam: %d)", duration, callCount)
}

func escalationReason(threshold int) string {
	return fmt.Sprintf("Otomatik: %d başarısız arama denemesi", threshold)
}

// CallOutcome is the lead after a logged call.
type CallOutcome struct {
	Lead      domain.Lead `json:"lead"`
	Escalated bool        `json:"escalated"`
}

// LogCall records a call attempt. When the attempt is unreachable and it
// completes a run of unreachable calls as long as the escalation threshold,
// the lead is closed in the same unit of work.
func (e *Engine) LogCall(ctx context.Context, leadID uuid.UUID, in CallInput) (CallOutcome, error) {
	in.Notes = sanitize.Text(in.Notes)
	if err := in.validate(); err != nil {
		return CallOutcome{}, err
	}

	var closed *domain.StatusDefinition
	if in.Disposition == domain.DispositionUnreachable {
		def, err := e.activeStatus(ctx, domain.StatusClosed)
		if err != nil {
			return CallOutcome{}, err
		}
		closed = &def
	}

	var (
		out        CallOutcome
		escalation *transition
		streak     int
	)
	err := e.store.WithLead(ctx, leadID, func(ctx context.Context, tx repository.LeadTx) error {
		lead, err := tx.LoadLead(ctx, leadID)
		if err != nil {
			return err
		}
		now := e.now()

		lead.CallCount++
		lead.LastContactAt = &now
		lead.UpdatedAt = now
		if in.CallbackAt != nil {
			at := in.CallbackAt.UTC()
			lead.NextAction = domain.NextActionCallback
			lead.NextActionAt = &at
		}

		call := e.newEvent(leadID, domain.EventCall, now)
		call.Disposition = in.Disposition
		call.Note = callNote(in.Notes, in.DurationSeconds, lead.CallCount)
		call.Metadata = map[string]any{"durationSeconds": in.DurationSeconds, "callCount": lead.CallCount}
		if err := tx.AppendEvent(ctx, call); err != nil {
			return err
		}

		if closed != nil && !domain.IsTerminal(lead.StatusCode) && lead.CallCount >= e.threshold {
			history, err := tx.ListEvents(ctx, leadID)
			if err != nil {
				return err
			}
			streak = timeline.UnreachableStreak(history)
			if streak >= e.threshold {
				t, err := e.changeStatus(ctx, tx, &lead, closed.Code, escalationReason(e.threshold), now)
				if err != nil {
					return err
				}
				escalation = &t
			}
		}

		if err := tx.SaveLead(ctx, lead); err != nil {
			return err
		}
		out = CallOutcome{Lead: lead, Escalated: escalation != nil}
		return nil
	})
	if err != nil {
		return CallOutcome{}, mapStoreErr(err)
	}

	log := e.log.WithContext(ctx)
	log.CallLogged(leadID.String(), in.Disposition, out.Lead.CallCount)
	e.publish(ctx, events.CallLogged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      leadID,
		Disposition: in.Disposition,
		CallCount:   out.Lead.CallCount,
		Duration:    in.DurationSeconds,
	})
	if escalation != nil {
		log.Warn("lead escalated after failed calls", "leadId", leadID, "failedCalls", streak)
		e.announce(ctx, leadID, escalation)
		e.publish(ctx, events.LeadEscalated{BaseEvent: events.NewBaseEvent(), LeadID: leadID, FailedCalls: streak})
	}

	return out, nil
}

func excerpt(message string, n int) string {
	runes := []rune(message)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// LogWhatsAppSent records an outbound message and moves the lead to WA_SENT
// from any stage, closed leads included.
func (e *Engine) LogWhatsAppSent(ctx context.Context, leadID uuid.UUID, templateCode, message string) (domain.Lead, error) {
	templateCode = strings.TrimSpace(templateCode)
	if templateCode == "" {
		return domain.Lead{}, apperr.Validation("template code is required")
	}
	if strings.TrimSpace(message) == "" {
		return domain.Lead{}, apperr.Validation("message is required")
	}

	waSent, err := e.activeStatus(ctx, domain.StatusWASent)
	if err != nil {
		return domain.Lead{}, err
	}

	var (
		out     domain.Lead
		changed *transition
	)
	err = e.store.WithLead(ctx, leadID, func(ctx context.Context, tx repository.LeadTx) error {
		lead, err := tx.LoadLead(ctx, leadID)
		if err != nil {
			return err
		}
		now := e.now()
		lead.LastContactAt = &now
		lead.UpdatedAt = now

		msg := e.newEvent(leadID, domain.EventWhatsApp, now)
		msg.Note = fmt.Sprintf("WhatsApp mesajı gönderildi: %s - %s...", templateCode, excerpt(message, whatsAppExcerptLen))
		msg.Metadata = map[string]any{"templateCode": templateCode}
		if err := tx.AppendEvent(ctx, msg); err != nil {
			return err
		}

		if lead.StatusCode != waSent.Code {
			t, err := e.changeStatus(ctx, tx, &lead, waSent.Code, whatsAppStatusNote, now)
			if err != nil {
				return err
			}
			changed = &t
		}

		if err := tx.SaveLead(ctx, lead); err != nil {
			return err
		}
		out = lead
		return nil
	})
	if err != nil {
		return domain.Lead{}, mapStoreErr(err)
	}

	e.log.WithContext(ctx).Info("whatsapp message logged", "leadId", leadID, "template", templateCode)
	e.announce(ctx, leadID, changed)
	e.publish(ctx, events.WhatsAppSent{BaseEvent: events.NewBaseEvent(), LeadID: leadID, TemplateCode: templateCode})

	return out, nil
}

// ScheduleAppointment books an appointment and moves the lead to APPT_SET.
func (e *Engine) ScheduleAppointment(ctx context.Context, leadID uuid.UUID, at time.Time, notes string) (domain.Lead, error) {
	if at.IsZero() {
		return domain.Lead{}, apperr.Validation("appointment time is required")
	}
	notes = sanitize.Text(notes)
	if utf8.RuneCountInString(notes) > maxLeadNotes {
		return domain.Lead{}, apperr.Validation("notes must be at most 1000 characters")
	}
	reason := notes
	if reason == "" {
		reason = appointmentNote
	}

	apptSet, err := e.activeStatus(ctx, domain.StatusApptSet)
	if err != nil {
		return domain.Lead{}, err
	}

	at = at.UTC()
	var (
		out     domain.Lead
		changed *transition
	)
	err = e.store.WithLead(ctx, leadID, func(ctx context.Context, tx repository.LeadTx) error {
		lead, err := tx.LoadLead(ctx, leadID)
		if err != nil {
			return err
		}
		if domain.IsTerminal(lead.StatusCode) {
			return apperr.InvalidTransition("closed leads cannot be scheduled")
		}
		now := e.now()

		lead.AppointmentDate = &at
		lead.NextAction = domain.NextActionAppointment
		lead.NextActionAt = &at
		lead.UpdatedAt = now

		appt := e.newEvent(leadID, domain.EventAppointment, now)
		appt.Note = fmt.Sprintf("%s - %s", reason, at.In(turkeyTime).Format("02.01.2006"))
		appt.Metadata = map[string]any{"appointmentAt": at.Format(time.RFC3339)}
		if err := tx.AppendEvent(ctx, appt); err != nil {
			return err
		}

		if lead.StatusCode != apptSet.Code {
			t, err := e.changeStatus(ctx, tx, &lead, apptSet.Code, reason, now)
			if err != nil {
				return err
			}
			changed = &t
		}

		if err := tx.SaveLead(ctx, lead); err != nil {
			return err
		}
		out = lead
		return nil
	})
	if err != nil {
		return domain.Lead{}, mapStoreErr(err)
	}

	e.log.WithContext(ctx).Info("appointment scheduled", "leadId", leadID, "appointmentAt", at)
	e.announce(ctx, leadID, changed)
	e.publish(ctx, events.AppointmentScheduled{BaseEvent: events.NewBaseEvent(), LeadID: leadID, AppointmentAt: at})

	return out, nil
}
