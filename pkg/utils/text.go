package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var space = regexp.MustCompile(`\s+`)

// CleanText removes extra whitespace and normalizes text
func CleanText(text string) string {
	return strings.TrimSpace(space.ReplaceAllString(text, " "))
}

// TruncateText truncates text to a maximum number of runes, preserving word
// boundaries
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	truncated := string([]rune(text)[:maxLength])
	lastSpace := strings.LastIndex(truncated, " ")

	if lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// NormalizeURL normalizes a URL or path for consistent comparison
func NormalizeURL(url string) string {
	// Remove fragment
	if idx := strings.Index(url, "#"); idx >= 0 {
		url = url[:idx]
	}

	// Remove trailing slash
	url = strings.TrimSuffix(url, "/")

	// Convert to lowercase for domain part
	if idx := strings.Index(url, "://"); idx > 0 {
		protocol := url[:idx+3]
		rest := url[idx+3:]

		if slashIdx := strings.Index(rest, "/"); slashIdx > 0 {
			domain := strings.ToLower(rest[:slashIdx])
			path := rest[slashIdx:]
			url = protocol + domain + path
		} else {
			url = protocol + strings.ToLower(rest)
		}
	}

	return url
}
