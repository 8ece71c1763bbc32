package intake

import (
	"regexp"
	"strings"

	"github.com/civicnav/navigator/internal/model/incident"
)

// emailShape accepts local@domain.tld: no whitespace, exactly one side of an
// @ before a dotted domain. Deliberately a shape check, not RFC validation.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func nonEmpty(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func validEmail(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !emailShape.MatchString(trimmed) {
		return "", false
	}
	return trimmed, true
}

func validCategory(raw string) (string, bool) {
	category, ok := incident.ParseCategory(raw)
	if !ok {
		return "", false
	}
	return string(category), true
}
