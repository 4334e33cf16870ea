// Package messaging renders WhatsApp templates for a lead and hands them
// to the gateway.
package messaging

import (
	"net/url"
	"regexp"
	"strings"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/phone"
)

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}|\{(\w+)\}`)

// Personalize replaces {var} and {{var}} placeholders in message.
// Placeholders without a value are left as written.
func Personalize(message string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(message, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// LeadVariables returns the built-in template variables for lead.
func LeadVariables(lead domain.Lead) map[string]string {
	return map[string]string{
		"name":    lead.Name,
		"ad":      lead.Name,
		"telefon": phone.ToDisplayForm(lead.Phone),
		"sehir":   lead.City,
	}
}

// mergeVars layers extra over base without mutating either.
func mergeVars(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[strings.TrimSpace(k)] = v
	}
	return out
}

// ChatLink builds a wa.me link that opens a chat with message prefilled.
func ChatLink(phoneNumber, message string) string {
	link := "https://wa.me/" + phone.WhatsAppID(phoneNumber)
	if message == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
