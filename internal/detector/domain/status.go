package domain

import (
	"fmt"
	"strings"
)

// Status is the safety classification of a reading
type Status string

const (
	StatusSafe    Status = "SAFE"
	StatusWarning Status = "WARNING"
	StatusDanger  Status = "DANGER"
)

const (
	// WarningThresholdPPM and DangerThresholdPPM are exclusive lower bounds
	WarningThresholdPPM = 1000
	DangerThresholdPPM  = 2000
)

// Classify maps a ppm value to a status. Total over all ints; never consults device input.
func Classify(ppm int) Status {
	switch {
	case ppm > DangerThresholdPPM:
		return StatusDanger
	case ppm > WarningThresholdPPM:
		return StatusWarning
	default:
		return StatusSafe
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusSafe, StatusWarning, StatusDanger:
		return true
	}
	return false
}

// ParseStatuses parses a comma separated list such as "WARNING,DANGER"
func ParseStatuses(raw string) ([]Status, error) {
	var statuses []Status
	seen := make(map[Status]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		s := Status(part)
		if !s.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, part)
		}
		if !seen[s] {
			seen[s] = true
			statuses = append(statuses, s)
		}
	}
	return statuses, nil
}

// AlertStatuses returns the default history filter shown to owners.
// Callers get their own slice.
func AlertStatuses() []Status {
	return []Status{StatusWarning, StatusDanger}
}
