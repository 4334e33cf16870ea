package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadflow_backend/platform/logger"
)

type gatewayConfig struct {
	url, key, device string
}

func (g gatewayConfig) GetWhatsAppURL() string      { return g.url }
func (g gatewayConfig) GetWhatsAppKey() string      { return g.key }
func (g gatewayConfig) GetWhatsAppDeviceID() string { return g.device }

func TestSendPostsNormalizedRecipient(t *testing.T) {
	var got sendRequest
	var auth, device string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send/message" {
			t.Errorf("path = %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		device = r.Header.Get("X-Device-Id")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"code":"SUCCESS","results":{"message_id":"3EB0","status":"sent"}}`))
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig{url: srv.URL + "/", key: "user:pass", device: "dev-1"}, logger.Discard())
	id, err := c.Send(context.Background(), "0532 123 45 67", "Merhaba")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "3EB0" {
		t.Errorf("message id = %q", id)
	}
	if got.Phone != "905321234567" || got.Message != "Merhaba" {
		t.Errorf("payload = %+v", got)
	}
	if auth != "Basic dXNlcjpwYXNz" || device != "dev-1" {
		t.Errorf("headers auth=%q device=%q", auth, device)
	}
}

func TestSendSurfacesGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "device offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig{url: srv.URL}, logger.Discard())
	if _, err := c.Send(context.Background(), "05321234567", "x"); err == nil {
		t.Fatal("expected gateway error")
	}
	if _, err := c.Send(context.Background(), "0444 123 45 67", "x"); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("landline error = %v", err)
	}
}

func TestNilClientIsDisabled(t *testing.T) {
	c := NewClient(gatewayConfig{}, logger.Discard())
	if c.Enabled() {
		t.Fatal("client without URL must be disabled")
	}
	if id, err := c.Send(context.Background(), "05321234567", "x"); err != nil || id != "" {
		t.Fatalf("Send() on nil client = %q, %v", id, err)
	}
}
