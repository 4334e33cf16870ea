// Package lifecycle moves leads through the pipeline. It is the only writer
// of the contact event log: every status change it applies is recorded in
// the same unit of work as a status_change event.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/timeline"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

const defaultEscalationThreshold = 3

// Engine applies contact events to leads.
type Engine struct {
	store     repository.LeadStore
	statuses  repository.StatusCatalog
	bus       events.Bus
	log       *logger.Logger
	threshold int
	now       func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. A nil cfg keeps the default escalation threshold.
func New(store repository.LeadStore, statuses repository.StatusCatalog, bus events.Bus, cfg config.EngineConfig, log *logger.Logger, opts ...Option) *Engine {
	threshold := defaultEscalationThreshold
	if cfg != nil && cfg.GetEscalationFailedCalls() > 0 {
		threshold = cfg.GetEscalationFailedCalls()
	}
	e := &Engine{
		store:     store,
		statuses:  statuses,
		bus:       bus,
		log:       log,
		threshold: threshold,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EscalationThreshold returns the number of consecutive unreachable calls
// that close a lead.
func (e *Engine) EscalationThreshold() int {
	return e.threshold
}

// GetLead returns a lead by id.
func (e *Engine) GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := e.store.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, mapStoreErr(err)
	}
	return lead, nil
}

// History returns a lead's events, newest first.
func (e *Engine) History(ctx context.Context, id uuid.UUID) ([]domain.ContactEvent, error) {
	if _, err := e.GetLead(ctx, id); err != nil {
		return nil, err
	}
	evs, err := e.store.ListEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return timeline.NewestFirst(evs), nil
}

// Summary aggregates a lead's activity from its event log.
func (e *Engine) Summary(ctx context.Context, id uuid.UUID) (timeline.Summary, error) {
	if _, err := e.GetLead(ctx, id); err != nil {
		return timeline.Summary{}, err
	}
	evs, err := e.store.ListEvents(ctx, id)
	if err != nil {
		return timeline.Summary{}, err
	}
	return timeline.Summarize(evs, e.now()), nil
}

// ListStatuses returns the active pipeline stages.
func (e *Engine) ListStatuses(ctx context.Context) ([]domain.StatusDefinition, error) {
	return e.statuses.ListStatusDefinitions(ctx)
}

// activeStatus resolves code against the active definitions.
func (e *Engine) activeStatus(ctx context.Context, code string) (domain.StatusDefinition, error) {
	defs, err := e.statuses.ListStatusDefinitions(ctx)
	if err != nil {
		return domain.StatusDefinition{}, err
	}
	def, ok := domain.FindActive(defs, code)
	if !ok {
		return domain.StatusDefinition{}, apperr.InvalidTransition("unknown status code").WithDetails(map[string]string{"code": code})
	}
	return def, nil
}

func (e *Engine) newEvent(leadID uuid.UUID, typ string, at time.Time) domain.ContactEvent {
	return domain.ContactEvent{
		ID:        uuid.New(),
		LeadID:    leadID,
		Type:      typ,
		CreatedAt: at,
	}
}

// transition pairs a status change with the event that records it.
type transition struct {
	from   string
	to     string
	reason string
}

// changeStatus sets lead's status and appends the status_change event.
func (e *Engine) changeStatus(ctx context.Context, tx repository.LeadTx, lead *domain.Lead, to, reason string, at time.Time) (transition, error) {
	t := transition{from: lead.StatusCode, to: to, reason: reason}
	lead.StatusCode = to
	lead.UpdatedAt = at

	ev := e.newEvent(lead.ID, domain.EventStatusChange, at)
	ev.FromStatus = t.from
	ev.ToStatus = to
	ev.Note = reason
	if err := tx.AppendEvent(ctx, ev); err != nil {
		return transition{}, err
	}
	return t, nil
}

func (e *Engine) announce(ctx context.Context, leadID uuid.UUID, t *transition) {
	if t == nil {
		return
	}
	e.log.WithContext(ctx).LeadTransition(leadID.String(), t.from, t.to, t.reason)
	e.publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		FromStatus: t.from,
		ToStatus:   t.to,
		Reason:     t.reason,
	})
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ctx, ev)
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}
