// Package sanitize cleans user-provided text before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup, decodes entities and strips again so that
// encoded tags cannot survive.
func StripHTML(s string) string {
	out := htmlTag.ReplaceAllString(s, "")
	out = html.UnescapeString(out)
	out = htmlTag.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Text sanitizes multi-line free text such as notes. Line breaks are kept.
func Text(s string) string {
	return StripHTML(s)
}

// Line sanitizes a single-line field such as a name or a city and collapses
// every whitespace run to one space.
func Line(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}
