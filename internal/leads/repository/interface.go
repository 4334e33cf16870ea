package repository

import (
	"context"
	"errors"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("lead not found")
	ErrTemplateNotFound = errors.New("whatsapp template not found")
)

// LeadTx is a unit of work holding the lock of a single lead.
// Nothing written through it is visible until the enclosing call commits.
type LeadTx interface {
	LoadLead(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	SaveLead(ctx context.Context, lead domain.Lead) error
	AppendEvent(ctx context.Context, event domain.ContactEvent) error
	ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.ContactEvent, error)
}

// LeadStore persists leads and their contact event log.
type LeadStore interface {
	// WithLead locks leadID for the duration of fn. fn's writes commit
	// together when it returns nil and are discarded otherwise.
	// Returns ErrNotFound if the lead does not exist.
	WithLead(ctx context.Context, leadID uuid.UUID, fn func(ctx context.Context, tx LeadTx) error) error
	CreateLead(ctx context.Context, lead domain.Lead, events []domain.ContactEvent) error
	GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.ContactEvent, error)
}

// StatusCatalog reads pipeline stage definitions.
type StatusCatalog interface {
	// ListStatusDefinitions returns active definitions ordered by OrderIndex.
	ListStatusDefinitions(ctx context.Context) ([]domain.StatusDefinition, error)
	UpsertStatusDefinitions(ctx context.Context, defs []domain.StatusDefinition) error
}

// TemplateStore reads and seeds WhatsApp templates.
type TemplateStore interface {
	GetTemplate(ctx context.Context, code string) (domain.WhatsAppTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.WhatsAppTemplate, error)
	UpsertTemplates(ctx context.Context, templates []domain.WhatsAppTemplate) error
}

var (
	_ LeadStore     = (*Repository)(nil)
	_ StatusCatalog = (*Repository)(nil)
	_ TemplateStore = (*Repository)(nil)
	_ LeadStore     = (*Memory)(nil)
	_ StatusCatalog = (*Memory)(nil)
	_ TemplateStore = (*Memory)(nil)
)
