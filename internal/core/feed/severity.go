package feed

import (
	"fmt"
	"strings"
)

// Severity classifies a message. The zero value is an unstyled message.
type Severity string

const (
	SeverityNone      Severity = ""
	SeveritySuccess   Severity = "success"
	SeverityInfo      Severity = "info"
	SeverityWarn      Severity = "warn"
	SeverityError     Severity = "error"
	SeveritySecondary Severity = "secondary"
	SeverityContrast  Severity = "contrast"
)

var severities = []Severity{
	SeveritySuccess,
	SeverityInfo,
	SeverityWarn,
	SeverityError,
	SeveritySecondary,
	SeverityContrast,
}

// Severities returns all named severities in declaration order.
func Severities() []Severity {
	out := make([]Severity, len(severities))
	copy(out, severities)
	return out
}

// Valid reports whether s is a named severity or the empty severity.
func (s Severity) Valid() bool {
	if s == SeverityNone {
		return true
	}
	for _, v := range severities {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSeverity converts a string into a Severity. Matching is case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !sev.Valid() {
		return SeverityNone, fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so scripts and config
// files reject unknown severities at decode time.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
