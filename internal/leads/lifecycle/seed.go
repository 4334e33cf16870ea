package lifecycle

import (
	"context"
	"fmt"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
)

// SeedDefaultStatuses writes the default pipeline stages. Definitions are
// keyed by code, so running it again only refreshes labels and ordering.
// It is called by the bootstrap command, never implicitly.
func SeedDefaultStatuses(ctx context.Context, catalog repository.StatusCatalog) error {
	defs, err := domain.DefaultStatuses()
	if err != nil {
		return err
	}
	if err := catalog.UpsertStatusDefinitions(ctx, defs); err != nil {
		return fmt.Errorf("seed statuses: %w", err)
	}
	return nil
}

// SeedDefaultTemplates writes the default WhatsApp templates.
func SeedDefaultTemplates(ctx context.Context, store repository.TemplateStore) error {
	templates, err := domain.DefaultTemplates()
	if err != nil {
		return err
	}
	if err := store.UpsertTemplates(ctx, templates); err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}
	return nil
}
