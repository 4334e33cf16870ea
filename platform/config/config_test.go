package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://crm.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GetEscalationFailedCalls() != 3 {
		t.Errorf("escalation threshold = %d, want 3", cfg.GetEscalationFailedCalls())
	}
	if cfg.GetReminderLeadTime() != time.Hour {
		t.Errorf("reminder lead time = %s, want 1h", cfg.GetReminderLeadTime())
	}
	if len(cfg.GetCORSOrigins()) != 2 {
		t.Errorf("cors origins = %v", cfg.GetCORSOrigins())
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origins with credentials")
	}
}

func TestLoadRejectsNonPositiveEscalation(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("ESCALATION_FAILED_CALLS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero escalation threshold")
	}
}
