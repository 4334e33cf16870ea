// Package leads provides the lead pipeline bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/lifecycle"
	"leadflow_backend/internal/leads/messaging"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/whatsapp"
	"leadflow_backend/platform/cache"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

// Stores groups the persistence ports of the module. The Postgres
// repository satisfies all three; tests use repository.Memory.
type Stores interface {
	repository.LeadStore
	repository.StatusCatalog
	repository.TemplateStore
}

// ModuleConfig combines the config interfaces the module reads.
type ModuleConfig interface {
	config.EngineConfig
	config.WhatsAppConfig
	config.CacheConfig
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	contacts  *handler.ContactsHandler
	engine    *lifecycle.Engine
	messaging *messaging.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(stores Stores, eventBus events.Bus, statusCache cache.Cache, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) *Module {
	if statusCache == nil {
		statusCache = cache.NewNoop()
	}
	statuses := repository.NewCachedStatusCatalog(stores, statusCache, cfg.GetStatusCacheTTL(), log)

	engine := lifecycle.New(stores, statuses, eventBus, cfg, log)

	// A nil *whatsapp.Client must not become a non-nil Sender.
	var sender messaging.Sender
	if client := whatsapp.NewClient(cfg, log); client != nil {
		sender = client
	}
	msgSvc := messaging.New(stores, engine, sender, log)

	return &Module{
		handler:   handler.New(engine, msgSvc, val),
		contacts:  handler.NewContactsHandler(engine, msgSvc, eventBus, val),
		engine:    engine,
		messaging: msgSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Engine returns the lead status engine for the scheduler worker.
func (m *Module) Engine() *lifecycle.Engine {
	return m.engine
}

// Messaging returns the WhatsApp template service.
func (m *Module) Messaging() *messaging.Service {
	return m.messaging
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.contacts.RegisterRoutes(ctx.V1, ctx.ParseRateLimit)
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
