package domain

// Pipeline status codes. Codes are the canonical identifier of a stage;
// surrogate ids of StatusDefinition rows are never used for decisions.
const (
	StatusNew           = "NEW"
	StatusToCall        = "TO_CALL"
	StatusWASent        = "WA_SENT"
	StatusApptSet       = "APPT_SET"
	StatusApptConfirmed = "APPT_CONFIRMED"
	StatusFollowUp      = "FOLLOW_UP"
	StatusQualified     = "QUALIFIED"
	StatusClosed        = "CLOSED"
)

// StatusDefinition is one pipeline stage.
type StatusDefinition struct {
	ID         string `yaml:"-" json:"id"`
	Code       string `yaml:"code" json:"code"`
	Label      string `yaml:"label" json:"label"`
	Color      string `yaml:"color" json:"color"`
	OrderIndex int    `yaml:"order" json:"orderIndex"`
	IsActive   bool   `yaml:"active" json:"isActive"`
}

// IsTerminal reports whether no workflow transition may leave code.
func IsTerminal(code string) bool {
	return code == StatusClosed
}

// ResolveInitialStatus maps an unset status to NEW.
func ResolveInitialStatus(code string) string {
	if code == "" {
		return StatusNew
	}
	return code
}

// FindActive returns the active definition with exactly the given code.
func FindActive(defs []StatusDefinition, code string) (StatusDefinition, bool) {
	for _, d := range defs {
		if d.IsActive && d.Code == code {
			return d, true
		}
	}
	return StatusDefinition{}, false
}
