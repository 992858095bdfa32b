// Package textnorm turns raw chat text into clean lowercase tokens.
// The pipeline is pure: malformed input degrades to an empty result.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	handlePattern = regexp.MustCompile(`@\w+`)
	urlPattern    = regexp.MustCompile(`http\S+`)
)

// Normalize strips @handles, URLs and every rune outside the Cyrillic/Latin
// alphabets, lowercases and splits on whitespace.
func Normalize(raw string) []string {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}

// Clean runs the normalization pipeline without the final split.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// NFC first so decomposed accents do not survive the charset filter.
	text := norm.NFC.String(raw)
	text = handlePattern.ReplaceAllString(text, "")
	text = urlPattern.ReplaceAllString(text, "")
	text = stripForeign(text)
	return strings.ToLower(strings.TrimSpace(text))
}

// stripForeign drops every rune outside Cyrillic/Latin letters and whitespace.
func stripForeign(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if isKept(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func isKept(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я':
		return true
	case r == 'ё' || r == 'Ё':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	default:
		return false
	}
}
