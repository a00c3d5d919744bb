package services

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Sanitize strips markup tags and surrounding whitespace from free text.
func Sanitize(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

func normalizeEmail(s string) string {
	return strings.ToLower(Sanitize(s))
}
