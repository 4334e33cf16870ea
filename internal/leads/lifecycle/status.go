package lifecycle

import (
	"context"
	"strings"
	"unicode/utf8"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	maxBulkLeads       = 200
	bulkConcurrency    = 8
	manualStatusPrefix = "Durum değişti: "
)

// SetStatus moves a lead to code. It always records a status_change event,
// even when the lead already is in that stage.
func (e *Engine) SetStatus(ctx context.Context, leadID uuid.UUID, code, note string) (domain.Lead, error) {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > maxLeadNotes {
		return domain.Lead{}, apperr.Validation("note must be at most 1000 characters")
	}

	def, err := e.activeStatus(ctx, code)
	if err != nil {
		return domain.Lead{}, err
	}
	if note == "" {
		note = manualStatusPrefix + def.Label
	}

	var (
		out domain.Lead
		t   transition
	)
	err = e.store.WithLead(ctx, leadID, func(ctx context.Context, tx repository.LeadTx) error {
		lead, err := tx.LoadLead(ctx, leadID)
		if err != nil {
			return err
		}
		if domain.IsTerminal(lead.StatusCode) && def.Code != lead.StatusCode {
			return apperr.InvalidTransition("closed leads cannot change status")
		}

		t, err = e.changeStatus(ctx, tx, &lead, def.Code, note, e.now())
		if err != nil {
			return err
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

	e.announce(ctx, leadID, &t)
	return out, nil
}

// BulkResult is the outcome of one lead in a bulk update.
type BulkResult struct {
	LeadID uuid.UUID    `json:"leadId"`
	Lead   *domain.Lead `json:"lead,omitempty"`
	Error  string       `json:"error,omitempty"`
	Kind   string       `json:"kind,omitempty"`
}

// BulkSetStatus applies SetStatus to every lead concurrently. Each lead is
// updated in its own unit of work; one failure does not affect the others.
func (e *Engine) BulkSetStatus(ctx context.Context, leadIDs []uuid.UUID, code, note string) ([]BulkResult, error) {
	if len(leadIDs) == 0 {
		return nil, apperr.Validation("at least one lead id is required")
	}
	if len(leadIDs) > maxBulkLeads {
		return nil, apperr.Validation("too many leads in one request")
	}
	if _, err := e.activeStatus(ctx, code); err != nil {
		return nil, err
	}

	results := make([]BulkResult, len(leadIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for i, id := range leadIDs {
		g.Go(func() error {
			results[i].LeadID = id
			lead, err := e.SetStatus(gctx, id, code, note)
			if err != nil {
				if apperr.GetKind(err) == apperr.KindUnknown {
					// infrastructure failure: stop scheduling the rest
					return err
				}
				results[i].Error = err.Error()
				results[i].Kind = apperr.GetKind(err).String()
				return nil
			}
			results[i].Lead = &lead
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
