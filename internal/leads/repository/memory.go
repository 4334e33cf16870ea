package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Memory is an in-process implementation of every store in this package.
// It serializes work per lead the same way the row lock does in Postgres.
type Memory struct {
	mu        sync.Mutex
	leads     map[uuid.UUID]domain.Lead
	events    map[uuid.UUID][]domain.ContactEvent
	locks     map[uuid.UUID]*sync.Mutex
	statuses  []domain.StatusDefinition
	templates []domain.WhatsAppTemplate
}

func NewMemory() *Memory {
	return &Memory{
		leads:  make(map[uuid.UUID]domain.Lead),
		events: make(map[uuid.UUID][]domain.ContactEvent),
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (m *Memory) leadLock(id uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *Memory) CreateLead(_ context.Context, lead domain.Lead, events []domain.ContactEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.leads[lead.ID]; exists {
		return errors.New("lead already exists")
	}
	m.leads[lead.ID] = lead
	m.events[lead.ID] = append([]domain.ContactEvent(nil), events...)
	return nil
}

func (m *Memory) GetLead(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	return lead, nil
}

func (m *Memory) ListEvents(_ context.Context, leadID uuid.UUID) ([]domain.ContactEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ContactEvent(nil), m.events[leadID]...), nil
}

func (m *Memory) WithLead(ctx context.Context, leadID uuid.UUID, fn func(ctx context.Context, tx LeadTx) error) error {
	lock := m.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := m.GetLead(ctx, leadID)
	if err != nil {
		return err
	}
	committed, _ := m.ListEvents(ctx, leadID)

	tx := &memoryTx{store: m, lead: lead, committed: committed}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[leadID] = tx.lead
	m.events[leadID] = append(m.events[leadID], tx.pending...)
	return nil
}

type memoryTx struct {
	store     *Memory
	lead      domain.Lead
	committed []domain.ContactEvent
	pending   []domain.ContactEvent
}

func (t *memoryTx) LoadLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	if id == t.lead.ID {
		return t.lead, nil
	}
	return t.store.GetLead(ctx, id)
}

func (t *memoryTx) SaveLead(_ context.Context, lead domain.Lead) error {
	if lead.ID != t.lead.ID {
		return errors.New("lead is not locked by this transaction")
	}
	t.lead = lead
	return nil
}

func (t *memoryTx) AppendEvent(_ context.Context, event domain.ContactEvent) error {
	if event.LeadID != t.lead.ID {
		return errors.New("event belongs to a lead not locked by this transaction")
	}
	t.pending = append(t.pending, event)
	return nil
}

func (t *memoryTx) ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.ContactEvent, error) {
	if leadID != t.lead.ID {
		return t.store.ListEvents(ctx, leadID)
	}
	out := make([]domain.ContactEvent, 0, len(t.committed)+len(t.pending))
	out = append(out, t.committed...)
	return append(out, t.pending...), nil
}

func (m *Memory) ListStatusDefinitions(context.Context) ([]domain.StatusDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.StatusDefinition, 0, len(m.statuses))
	for _, d := range m.statuses {
		if d.IsActive {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *Memory) UpsertStatusDefinitions(_ context.Context, defs []domain.StatusDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range defs {
		replaced := false
		for i := range m.statuses {
			if m.statuses[i].Code == d.Code {
				d.ID = m.statuses[i].ID
				m.statuses[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			d.ID = uuid.NewString()
			m.statuses = append(m.statuses, d)
		}
	}
	return nil
}

func (m *Memory) GetTemplate(_ context.Context, code string) (domain.WhatsAppTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.Code == code && t.IsActive {
			return t, nil
		}
	}
	return domain.WhatsAppTemplate{}, ErrTemplateNotFound
}

func (m *Memory) ListTemplates(context.Context) ([]domain.WhatsAppTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WhatsAppTemplate, 0, len(m.templates))
	for _, t := range m.templates {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Memory) UpsertTemplates(_ context.Context, templates []domain.WhatsAppTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range templates {
		replaced := false
		for i := range m.templates {
			if m.templates[i].Code == t.Code {
				t.ID = m.templates[i].ID
				m.templates[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			t.ID = uuid.NewString()
			m.templates = append(m.templates, t)
		}
	}
	return nil
}

var (
	_ LeadStore     = (*Memory)(nil)
	_ StatusCatalog = (*Memory)(nil)
	_ TemplateStore = (*Memory)(nil)
)
