package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the Postgres implementation of the lead stores.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, name, phone, COALESCE(region, ''), COALESCE(city, ''), COALESCE(status_code, ''),
	call_count, last_contact_at, COALESCE(next_action, ''), next_action_at, appointment_date,
	source, COALESCE(notes, ''), created_at, updated_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Region, &lead.City, &lead.StatusCode,
		&lead.CallCount, &lead.LastContactAt, &lead.NextAction, &lead.NextActionAt, &lead.AppointmentDate,
		&lead.Source, &lead.Notes, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (r *Repository) CreateLead(ctx context.Context, lead domain.Lead, events []domain.ContactEvent) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO leads (
			id, name, phone, region, city, status_code, call_count, last_contact_at,
			next_action, next_action_at, appointment_date, source, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8,
			NULLIF($9, ''), $10, $11, $12, NULLIF($13, ''), $14, $15)
	`, lead.ID, lead.Name, lead.Phone, lead.Region, lead.City, lead.StatusCode, lead.CallCount, lead.LastContactAt,
		lead.NextAction, lead.NextActionAt, lead.AppointmentDate, lead.Source, lead.Notes, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return err
	}

	for _, e := range events {
		if err := insertEvent(ctx, tx, e); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.ContactEvent, error) {
	return listEvents(ctx, r.pool, leadID)
}

// WithLead runs fn inside a transaction holding a row lock on the lead, so
// concurrent operations on the same lead are applied one after another.
func (r *Repository) WithLead(ctx context.Context, leadID uuid.UUID, fn func(ctx context.Context, tx LeadTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM leads WHERE id = $1 FOR UPDATE`, leadID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := fn(ctx, &pgLeadTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgLeadTx struct {
	tx pgx.Tx
}

func (t *pgLeadTx) LoadLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return scanLead(t.tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (t *pgLeadTx) SaveLead(ctx context.Context, lead domain.Lead) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE leads SET
			name = $2, phone = $3, region = NULLIF($4, ''), city = NULLIF($5, ''),
			status_code = NULLIF($6, ''), call_count = $7, last_contact_at = $8,
			next_action = NULLIF($9, ''), next_action_at = $10, appointment_date = $11,
			source = $12, notes = NULLIF($13, ''), updated_at = $14
		WHERE id = $1
	`, lead.ID, lead.Name, lead.Phone, lead.Region, lead.City,
		lead.StatusCode, lead.CallCount, lead.LastContactAt,
		lead.NextAction, lead.NextActionAt, lead.AppointmentDate,
		lead.Source, lead.Notes, lead.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgLeadTx) AppendEvent(ctx context.Context, event domain.ContactEvent) error {
	return insertEvent(ctx, t.tx, event)
}

func (t *pgLeadTx) ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.ContactEvent, error) {
	return listEvents(ctx, t.tx, leadID)
}

// execer and rowsQuerier are satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type rowsQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func insertEvent(ctx context.Context, db execer, e domain.ContactEvent) error {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO lead_events (id, lead_id, event_type, disposition, note, from_status, to_status, metadata, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
	`, e.ID, e.LeadID, e.Type, e.Disposition, e.Note, e.FromStatus, e.ToStatus, metadataJSON, e.CreatedAt)
	return err
}

// listEvents returns the log in append order.
func listEvents(ctx context.Context, db rowsQuerier, leadID uuid.UUID) ([]domain.ContactEvent, error) {
	rows, err := db.Query(ctx, `
		SELECT id, lead_id, event_type, COALESCE(disposition, ''), COALESCE(note, ''),
			COALESCE(from_status, ''), COALESCE(to_status, ''), metadata, created_at
		FROM lead_events
		WHERE lead_id = $1
		ORDER BY created_at ASC, seq ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ContactEvent, 0)
	for rows.Next() {
		var e domain.ContactEvent
		var metadataJSON []byte
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Type, &e.Disposition, &e.Note,
			&e.FromStatus, &e.ToStatus, &metadataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, err
			}
		}
		if len(e.Metadata) == 0 {
			e.Metadata = nil
		}
		items = append(items, e)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func (r *Repository) ListStatusDefinitions(ctx context.Context) ([]domain.StatusDefinition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, code, label, color, order_index, is_active
		FROM status_definitions
		WHERE is_active = true
		ORDER BY order_index ASC, code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	defs := make([]domain.StatusDefinition, 0)
	for rows.Next() {
		var d domain.StatusDefinition
		if err := rows.Scan(&d.ID, &d.Code, &d.Label, &d.Color, &d.OrderIndex, &d.IsActive); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return defs, nil
}

// UpsertStatusDefinitions inserts or refreshes definitions keyed by code,
// so seeding twice leaves one row per code.
func (r *Repository) UpsertStatusDefinitions(ctx context.Context, defs []domain.StatusDefinition) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range defs {
		_, err := tx.Exec(ctx, `
			INSERT INTO status_definitions (code, label, color, order_index, is_active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (code) DO UPDATE SET
				label = EXCLUDED.label,
				color = EXCLUDED.color,
				order_index = EXCLUDED.order_index,
				is_active = EXCLUDED.is_active
		`, d.Code, d.Label, d.Color, d.OrderIndex, d.IsActive)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) GetTemplate(ctx context.Context, code string) (domain.WhatsAppTemplate, error) {
	var t domain.WhatsAppTemplate
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, code, name, message, variables, is_active
		FROM whatsapp_templates
		WHERE code = $1 AND is_active = true
	`, code).Scan(&t.ID, &t.Code, &t.Name, &t.Message, &t.Variables, &t.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.WhatsAppTemplate{}, ErrTemplateNotFound
	}
	return t, err
}

func (r *Repository) ListTemplates(ctx context.Context) ([]domain.WhatsAppTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, code, name, message, variables, is_active
		FROM whatsapp_templates
		WHERE is_active = true
		ORDER BY created_at ASC, code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.WhatsAppTemplate, 0)
	for rows.Next() {
		var t domain.WhatsAppTemplate
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Message, &t.Variables, &t.IsActive); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func (r *Repository) UpsertTemplates(ctx context.Context, templates []domain.WhatsAppTemplate) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, t := range templates {
		vars := t.Variables
		if vars == nil {
			vars = []string{}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO whatsapp_templates (code, name, message, variables, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO UPDATE SET
				name = EXCLUDED.name,
				message = EXCLUDED.message,
				variables = EXCLUDED.variables,
				is_active = EXCLUDED.is_active
		`, t.Code, t.Name, t.Message, vars, t.IsActive, time.Now().UTC())
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

var (
	_ LeadStore     = (*Repository)(nil)
	_ StatusCatalog = (*Repository)(nil)
	_ TemplateStore = (*Repository)(nil)
)
