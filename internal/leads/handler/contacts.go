package handler

import (
	"net/http"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/lifecycle"
	"leadflow_backend/internal/leads/messaging"
	"leadflow_backend/internal/leads/parser"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/phone"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ContactsHandler serves the stateless parsing and phone endpoints and the
// read-only catalogs.
type ContactsHandler struct {
	engine    *lifecycle.Engine
	messaging *messaging.Service
	bus       events.Bus
	val       *validator.Validator
}

func NewContactsHandler(engine *lifecycle.Engine, msg *messaging.Service, bus events.Bus, val *validator.Validator) *ContactsHandler {
	return &ContactsHandler{engine: engine, messaging: msg, bus: bus, val: val}
}

// RegisterRoutes mounts the routes on rg. parseLimit guards the parser.
func (h *ContactsHandler) RegisterRoutes(rg *gin.RouterGroup, parseLimit gin.HandlerFunc) {
	if parseLimit != nil {
		rg.POST("/contacts/parse", parseLimit, h.Parse)
	} else {
		rg.POST("/contacts/parse", h.Parse)
	}
	rg.POST("/phones/normalize", h.NormalizePhone)
	rg.POST("/phones/validate", h.ValidatePhone)
	rg.GET("/statuses", h.ListStatuses)
	rg.GET("/whatsapp/templates", h.ListTemplates)
}

func (h *ContactsHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func (h *ContactsHandler) Parse(c *gin.Context) {
	var req transport.ParseContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	parsed, err := parser.Parse(req.Text)
	if httpkit.HandleError(c, err) {
		return
	}
	if h.bus != nil {
		h.bus.Publish(c.Request.Context(), events.ContactParsed{BaseEvent: events.NewBaseEvent(), Confidence: parsed.Confidence})
	}

	httpkit.OK(c, transport.ParseContactResponse{ParsedContact: parsed})
}

func (h *ContactsHandler) NormalizePhone(c *gin.Context) {
	var req transport.NormalizePhoneRequest
	if !h.bind(c, &req) {
		return
	}

	target := phone.Target(req.Target)
	if target == "" {
		target = phone.TargetStorage
	}

	httpkit.OK(c, transport.NormalizePhoneResponse{
		Phone:  phone.Normalize(req.Phone, target),
		Target: string(target),
	})
}

func (h *ContactsHandler) ValidatePhone(c *gin.Context) {
	var req transport.ValidatePhoneRequest
	if !h.bind(c, &req) {
		return
	}

	httpkit.OK(c, transport.ValidatePhoneResponse{Valid: phone.Validate(req.Phone)})
}

func (h *ContactsHandler) ListStatuses(c *gin.Context) {
	items, err := h.engine.ListStatuses(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.StatusListResponse{Items: items})
}

func (h *ContactsHandler) ListTemplates(c *gin.Context) {
	items, err := h.messaging.Templates(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.TemplateListResponse{Items: items})
}
