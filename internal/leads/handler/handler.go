// Package handler exposes the lead pipeline over HTTP.
package handler

import (
	"net/http"

	"leadflow_backend/internal/leads/lifecycle"
	"leadflow_backend/internal/leads/messaging"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler handles lead HTTP requests.
type Handler struct {
	engine    *lifecycle.Engine
	messaging *messaging.Service
	val       *validator.Validator
}

// New creates a new leads handler.
func New(engine *lifecycle.Engine, msg *messaging.Service, val *validator.Validator) *Handler {
	return &Handler{engine: engine, messaging: msg, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/from-text", h.CreateFromText)
	rg.POST("/bulk-status", h.BulkStatus)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/events", h.ListEvents)
	rg.GET("/:id/summary", h.Summary)
	rg.POST("/:id/calls", h.LogCall)
	rg.POST("/:id/whatsapp", h.LogWhatsApp)
	rg.POST("/:id/whatsapp/send", h.SendWhatsApp)
	rg.POST("/:id/appointments", h.ScheduleAppointment)
	rg.POST("/:id/status", h.SetStatus)
	rg.POST("/:id/notes", h.AddNote)
}

// bind decodes and validates the JSON body into req.
func (h *Handler) bind(c *gin.Context, req any) bool {
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

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.engine.CreateLead(c.Request.Context(), lifecycle.NewLead{
		Name:   req.Name,
		Phone:  req.Phone,
		Region: req.Region,
		City:   req.City,
		Source: req.Source,
		Notes:  req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) CreateFromText(c *gin.Context) {
	var req transport.CreateLeadFromTextRequest
	if !h.bind(c, &req) {
		return
	}

	lead, parsed, err := h.engine.CreateLeadFromText(c.Request.Context(), req.Text, lifecycle.NewLead{
		Name:   req.Name,
		Phone:  req.Phone,
		Region: req.Region,
		City:   req.City,
		Source: req.Source,
		Notes:  req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.CreateLeadFromTextResponse{Lead: lead, Parsed: parsed})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.engine.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) ListEvents(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	items, err := h.engine.History(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.EventListResponse{Items: items})
}

func (h *Handler) Summary(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	summary, err := h.engine.Summary(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, summary)
}

func (h *Handler) LogCall(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.LogCallRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.engine.LogCall(c.Request.Context(), id, lifecycle.CallInput{
		Disposition:     req.Disposition,
		Notes:           req.Notes,
		DurationSeconds: req.DurationSeconds,
		CallbackAt:      req.CallbackAt,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, out)
}

func (h *Handler) LogWhatsApp(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.LogWhatsAppRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.engine.LogWhatsAppSent(c.Request.Context(), id, req.TemplateCode, req.Message)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) SendWhatsApp(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.SendWhatsAppRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.messaging.Send(c.Request.Context(), id, req.TemplateCode, req.Variables)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, res)
}

func (h *Handler) ScheduleAppointment(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.ScheduleAppointmentRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.engine.ScheduleAppointment(c.Request.Context(), id, req.AppointmentAt, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.SetStatusRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.engine.SetStatus(c.Request.Context(), id, req.StatusCode, req.Note)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req transport.AddNoteRequest
	if !h.bind(c, &req) {
		return
	}

	note, err := h.engine.AddNote(c.Request.Context(), id, req.Body)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, note)
}

func (h *Handler) BulkStatus(c *gin.Context) {
	var req transport.BulkStatusRequest
	if !h.bind(c, &req) {
		return
	}

	results, err := h.engine.BulkSetStatus(c.Request.Context(), req.LeadIDs, req.StatusCode, req.Note)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"results": results})
}
