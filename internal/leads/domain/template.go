package domain

// WhatsAppTemplate is a reusable outbound message with {var} placeholders.
type WhatsAppTemplate struct {
	ID        string   `yaml:"-" json:"id"`
	Code      string   `yaml:"code" json:"code"`
	Name      string   `yaml:"name" json:"name"`
	Message   string   `yaml:"message" json:"message"`
	Variables []string `yaml:"variables" json:"variables"`
	IsActive  bool     `yaml:"active" json:"isActive"`
}

// Template codes shipped with the default seed.
const (
	TemplateFirstContact        = "FIRST_CONTACT"
	TemplateAppointmentReminder = "APPOINTMENT_REMINDER"
	TemplateFollowUp            = "FOLLOW_UP"
)
