package messaging

import (
	"context"
	"errors"
	"strings"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Sender delivers a message to a phone number.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, phoneNumber, message string) (string, error)
}

// Recorder is the part of the lifecycle engine messaging needs.
type Recorder interface {
	GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	LogWhatsAppSent(ctx context.Context, leadID uuid.UUID, templateCode, message string) (domain.Lead, error)
}

// Service renders templates and records outbound messages.
type Service struct {
	templates repository.TemplateStore
	recorder  Recorder
	sender    Sender
	log       *logger.Logger
}

func New(templates repository.TemplateStore, recorder Recorder, sender Sender, log *logger.Logger) *Service {
	return &Service{templates: templates, recorder: recorder, sender: sender, log: log}
}

// Rendered is a template personalized for one lead.
type Rendered struct {
	TemplateCode string `json:"templateCode"`
	Message      string `json:"message"`
	ChatLink     string `json:"chatLink"`
}

// SendResult describes a sent message.
type SendResult struct {
	Rendered
	Lead      domain.Lead `json:"lead"`
	Delivered bool        `json:"delivered"`
	MessageID string      `json:"messageId,omitempty"`
}

// Templates lists the active templates.
func (s *Service) Templates(ctx context.Context) ([]domain.WhatsAppTemplate, error) {
	return s.templates.ListTemplates(ctx)
}

// Render personalizes a template for lead. vars override built-in values.
func (s *Service) Render(ctx context.Context, leadID uuid.UUID, templateCode string, vars map[string]string) (Rendered, domain.Lead, error) {
	templateCode = strings.TrimSpace(templateCode)
	if templateCode == "" {
		return Rendered{}, domain.Lead{}, apperr.Validation("template code is required")
	}

	lead, err := s.recorder.GetLead(ctx, leadID)
	if err != nil {
		return Rendered{}, domain.Lead{}, err
	}

	tpl, err := s.templates.GetTemplate(ctx, templateCode)
	if errors.Is(err, repository.ErrTemplateNotFound) {
		return Rendered{}, domain.Lead{}, apperr.NotFound("whatsapp template not found")
	}
	if err != nil {
		return Rendered{}, domain.Lead{}, err
	}

	message := Personalize(tpl.Message, mergeVars(LeadVariables(lead), vars))
	return Rendered{
		TemplateCode: tpl.Code,
		Message:      message,
		ChatLink:     ChatLink(lead.Phone, message),
	}, lead, nil
}

// Send renders a template, delivers it when a gateway is configured and
// records it on the lead. Nothing is recorded if delivery fails.
func (s *Service) Send(ctx context.Context, leadID uuid.UUID, templateCode string, vars map[string]string) (SendResult, error) {
	rendered, lead, err := s.Render(ctx, leadID, templateCode, vars)
	if err != nil {
		return SendResult{}, err
	}

	result := SendResult{Rendered: rendered}
	if s.sender != nil && s.sender.Enabled() {
		id, err := s.sender.Send(ctx, lead.Phone, rendered.Message)
		if err != nil {
			s.log.WithContext(ctx).Error("whatsapp delivery failed", "leadId", leadID, "error", err)
			return SendResult{}, err
		}
		result.Delivered = true
		result.MessageID = id
	}

	updated, err := s.recorder.LogWhatsAppSent(ctx, leadID, rendered.TemplateCode, rendered.Message)
	if err != nil {
		return SendResult{}, err
	}
	result.Lead = updated
	return result, nil
}
