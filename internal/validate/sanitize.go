package validate

import (
	"strings"
	"unicode"
)

// SanitizeName cleans a counter, tracker or field name for storage.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	var sb strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// SanitizeText cleans an entry or task text for safe storage.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove null bytes
	text = strings.ReplaceAll(text, "\x00", "")

	// Normalize line endings
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return StripControlChars(text)
}

// StripControlChars removes all control characters except newlines and tabs.
func StripControlChars(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
