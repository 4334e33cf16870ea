// Package parser extracts contact details from free text pasted from chat
// applications. Extraction is pattern based and fixed to Turkish rules.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"
)

// ReasonEmptyText is returned for empty or whitespace-only input.
const ReasonEmptyText = "Metin boş veya geçersiz"

// Confidence weights per extracted field.
const (
	WeightPhone  = 40
	WeightName   = 30
	WeightCity   = 20
	WeightRegion = 10
	MaxScore     = 100
)

// ParsedContact is a best-effort extraction. Empty fields were not found.
type ParsedContact struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	Raw        string `json:"raw"`
	Confidence int    `json:"confidence"`
}

const (
	upper = `A-ZÇĞİIÖŞÜ`
	lower = `a-zçğıöşüâîû`
	// left boundary: start of text or a non-letter
	lb = `(?:^|[^\p{L}])`
)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+90\s?[0-9]{3}\s?[0-9]{3}\s?[0-9]{2}\s?[0-9]{2}`),
	regexp.MustCompile(`0[0-9]{3}\s?[0-9]{3}\s?[0-9]{2}\s?[0-9]{2}`),
	regexp.MustCompile(`[0-9]{11}`),
	regexp.MustCompile(`[0-9]{3}[-\s]?[0-9]{3}[-\s]?[0-9]{2}[-\s]?[0-9]{2}`),
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(lb + `([` + upper + `][` + lower + `]+[ \t]+[` + upper + `][` + lower + `]+(?:[ \t]+[` + upper + `][` + lower + `]+)?)`),
	regexp.MustCompile(lb + `(?i:bayan|bay|sayın|sayin|sr|sn)\.?\s+(\p{L}+(?:[ \t]+\p{L}+)?)`),
	regexp.MustCompile(lb + `(?i:isim|ad|name)\s*:\s*(\p{L}+(?:[ \t]+\p{L}+)?)`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(lb + `(?i:şehir|sehir|city|konum|location|yer)\s*:\s*(\p{L}+)`),
	regexp.MustCompile(lb + `([` + upper + `][` + lower + `]+)['’](?:dan|den|tan|ten)(?:[^\p{L}]|$)`),
}

var titlePrefix = regexp.MustCompile(`^(?i:bayan|bay|sayın|sayin|sr|sn)\.?\s+`)

var places = newGazetteer()

// Parse extracts name, phone and location from text. It fails only when the
// text is empty; missing fields are normal.
func Parse(text string) (ParsedContact, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return ParsedContact{}, apperr.ParseFailure(ReasonEmptyText)
	}

	result := ParsedContact{Raw: clean}
	if phones := extractPhones(clean); len(phones) > 0 {
		result.Phone = phones[0]
	}
	if names := extractNames(clean); len(names) > 0 {
		result.Name = names[0]
	}
	locations := extractLocations(clean)
	if len(locations) > 0 {
		result.City = locations[0]
	}
	if len(locations) > 1 {
		result.Region = locations[1]
	}
	result.Confidence = Score(result)

	return result, nil
}

// Score computes the completeness score of c.
func Score(c ParsedContact) int {
	score := 0
	if c.Phone != "" {
		score += WeightPhone
	}
	if c.Name != "" {
		score += WeightName
	}
	if c.City != "" {
		score += WeightCity
	}
	if c.Region != "" {
		score += WeightRegion
	}
	return min(score, MaxScore)
}

func extractPhones(text string) []string {
	var out orderedSet
	for _, p := range phonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			out.add(phone.ToMessagingForm(m))
		}
	}
	return out.items
}

func extractNames(text string) []string {
	var out orderedSet
	for _, p := range namePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			name := normalizeName(m[1])
			if utf8.RuneCountInString(name) > 2 {
				out.add(name)
			}
		}
	}
	return out.items
}

func extractLocations(text string) []string {
	var out orderedSet
	for _, p := range locationPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			out.add(normalizePlace(m[1]))
		}
	}
	for _, w := range words(text) {
		if name, ok := places.lookup(w); ok {
			out.add(name)
		}
	}
	return out.items
}

func normalizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	name = titlePrefix.ReplaceAllString(name, "")
	return titleCase(name)
}

func normalizePlace(raw string) string {
	if name, ok := places.lookup(raw); ok {
		return name
	}
	return titleCase(raw)
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, dup := s.seen[v]; dup {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
