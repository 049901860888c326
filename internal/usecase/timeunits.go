package usecase

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeUnits is the assumed encoding of the dataset time axis when no
// explicit units string is configured.
const DefaultTimeUnits = "seconds since 1970-01-01T00:00:00Z"

// ParseTimeUnits parses a CF-style time units string of the form
// "<unit> since <epoch>" (e.g. "seconds since 1970-01-01 00:00:00") into an
// epoch and the duration of one axis unit.
func ParseTimeUnits(units string) (time.Time, time.Duration, error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || !strings.EqualFold(fields[1], "since") {
		return time.Time{}, 0, fmt.Errorf("invalid time units %q (expected \"<unit> since <epoch>\")", units)
	}

	var unit time.Duration
	switch strings.ToLower(fields[0]) {
	case "seconds", "second", "sec", "secs":
		unit = time.Second
	case "minutes", "minute", "min", "mins":
		unit = time.Minute
	case "hours", "hour", "hr", "hrs":
		unit = time.Hour
	case "days", "day":
		unit = 24 * time.Hour
	default:
		return time.Time{}, 0, fmt.Errorf("unsupported time unit %q", fields[0])
	}

	epochStr := strings.Join(fields[2:], " ")
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if epoch, err := time.Parse(layout, epochStr); err == nil {
			return epoch.UTC(), unit, nil
		}
	}
	return time.Time{}, 0, fmt.Errorf("unparseable epoch %q in time units", epochStr)
}
