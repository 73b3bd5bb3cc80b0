package trail

import (
	"fmt"
	"regexp"
	"strings"
)

// Reasons reported by ValidationError.
const (
	ReasonMissing      = "missing"
	ReasonNotAllTrails = "not_alltrails"
	ReasonMalformed    = "malformed"
)

// ValidationError describes a URL the user has to correct. It is never retried.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissing:
		return "please enter a URL to scrape"
	case ReasonNotAllTrails:
		return fmt.Sprintf("not an AllTrails URL (should contain 'alltrails.com'): %q", e.URL)
	default:
		return fmt.Sprintf("invalid URL format: %q", e.URL)
	}
}

var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsAllTrailsURL reports whether the URL mentions alltrails.com.
func IsAllTrailsURL(raw string) bool {
	return raw != "" && strings.Contains(strings.ToLower(raw), "alltrails.com")
}

// IsValidURLFormat reports whether raw looks like an absolute http(s) URL.
func IsValidURLFormat(raw string) bool {
	return raw != "" && urlPattern.MatchString(raw)
}

// ValidateURL checks a hike URL before it is fetched. It returns a
// *ValidationError or nil.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ValidationError{URL: raw, Reason: ReasonMissing}
	}
	if !IsAllTrailsURL(raw) {
		return &ValidationError{URL: raw, Reason: ReasonNotAllTrails}
	}
	if !IsValidURLFormat(raw) {
		return &ValidationError{URL: raw, Reason: ReasonMalformed}
	}
	return nil
}
