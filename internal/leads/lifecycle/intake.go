package lifecycle

import (
	"context"
	"strings"
	"unicode/utf8"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/parser"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"
	"leadflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	minNameLength  = 2
	maxNameLength  = 100
	maxLeadNotes   = 1000
	creationNote   = "Aday oluşturuldu"
	parsedLeadNote = "Metinden ayrıştırıldı"
)

// NewLead carries the fields of a lead to be captured.
type NewLead struct {
	Name   string
	Phone  string
	Region string
	City   string
	Source string
	Notes  string
}

func (in NewLead) normalize() (NewLead, error) {
	in.Name = sanitize.Line(in.Name)
	in.Region = sanitize.Line(in.Region)
	in.City = sanitize.Line(in.City)
	in.Notes = sanitize.Text(in.Notes)
	in.Source = strings.TrimSpace(in.Source)

	if n := utf8.RuneCountInString(in.Name); n < minNameLength || n > maxNameLength {
		return in, apperr.Validation("name must be between 2 and 100 characters")
	}
	if !phone.Validate(in.Phone) {
		return in, apperr.Validation("invalid phone number")
	}
	in.Phone = phone.ToStorageForm(in.Phone)

	if in.Source == "" {
		in.Source = domain.SourceWhatsApp
	}
	if !domain.IsKnownSource(in.Source) {
		return in, apperr.Validation("invalid lead source")
	}
	if utf8.RuneCountInString(in.Notes) > maxLeadNotes {
		return in, apperr.Validation("notes must be at most 1000 characters")
	}
	return in, nil
}

// CreateLead captures a new prospect. The lead starts in NEW when that stage
// is configured and unset otherwise.
func (e *Engine) CreateLead(ctx context.Context, in NewLead) (domain.Lead, error) {
	return e.createLead(ctx, in, nil)
}

// CreateLeadFromText parses text and captures the contact it describes.
// Non-empty fields of overrides win over parsed values.
func (e *Engine) CreateLeadFromText(ctx context.Context, text string, overrides NewLead) (domain.Lead, parser.ParsedContact, error) {
	parsed, err := parser.Parse(text)
	if err != nil {
		return domain.Lead{}, parser.ParsedContact{}, err
	}
	e.publish(ctx, events.ContactParsed{BaseEvent: events.NewBaseEvent(), Confidence: parsed.Confidence})

	in := NewLead{
		Name:   firstNonEmpty(overrides.Name, parsed.Name),
		Phone:  firstNonEmpty(overrides.Phone, parsed.Phone),
		City:   firstNonEmpty(overrides.City, parsed.City),
		Region: firstNonEmpty(overrides.Region, parsed.Region),
		Source: overrides.Source,
		Notes:  overrides.Notes,
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return domain.Lead{}, parsed, apperr.Validation("parsed contact is missing name or phone").WithDetails(parsed)
	}

	lead, err := e.createLead(ctx, in, &parsed)
	if err != nil {
		return domain.Lead{}, parsed, err
	}
	return lead, parsed, nil
}

func (e *Engine) createLead(ctx context.Context, in NewLead, parsed *parser.ParsedContact) (domain.Lead, error) {
	in, err := in.normalize()
	if err != nil {
		return domain.Lead{}, err
	}

	defs, err := e.statuses.ListStatusDefinitions(ctx)
	if err != nil {
		return domain.Lead{}, err
	}
	status := ""
	if _, ok := domain.FindActive(defs, domain.StatusNew); ok {
		status = domain.ResolveInitialStatus("")
	}

	now := e.now()
	lead := domain.Lead{
		ID:         uuid.New(),
		Name:       in.Name,
		Phone:      in.Phone,
		Region:     in.Region,
		City:       in.City,
		StatusCode: status,
		Source:     in.Source,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created := e.newEvent(lead.ID, domain.EventNote, now)
	created.Note = creationNote
	created.Metadata = map[string]any{"source": lead.Source}
	if parsed != nil {
		created.Note = creationNote + " (" + parsedLeadNote + ")"
		created.Metadata["confidence"] = parsed.Confidence
	}

	if err := e.store.CreateLead(ctx, lead, []domain.ContactEvent{created}); err != nil {
		return domain.Lead{}, err
	}

	e.log.WithContext(ctx).Info("lead created", "leadId", lead.ID, "source", lead.Source)
	ev := events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: lead.ID, Source: lead.Source}
	if parsed != nil {
		ev.FromText = true
		ev.Confidence = parsed.Confidence
	}
	e.publish(ctx, ev)

	return lead, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
