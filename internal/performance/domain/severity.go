package domain

import (
	"fmt"
	"strings"
)

// Severity ranks how urgent a task is.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// ParseSeverity parses a severity case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
	}
}

func (s Severity) String() string { return string(s) }
