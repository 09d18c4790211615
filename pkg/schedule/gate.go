// Package schedule decides whether a feed is due on a given day. Feeds
// carry a list of weekday names; the decision is made in one configured
// timezone so a cron host's local clock does not shift the gate.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Gate evaluates feed schedules against a fixed timezone
type Gate struct {
	loc *time.Location
	now func() time.Time
}

// NewGate creates a gate for the given IANA timezone name.
// An empty name means UTC.
func NewGate(timezone string) (*Gate, error) {
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Gate{loc: loc, now: time.Now}, nil
}

// NewGateAt creates a gate with a fixed clock, for tests
func NewGateAt(timezone string, now func() time.Time) (*Gate, error) {
	g, err := NewGate(timezone)
	if err != nil {
		return nil, err
	}
	g.now = now
	return g, nil
}

// Location returns the gate's timezone
func (g *Gate) Location() *time.Location {
	return g.loc
}

// Due reports whether a feed with the given schedule should run today.
// An empty schedule means every day. Unknown day names never match;
// they are caught earlier by ValidateDays.
func (g *Gate) Due(days []string) bool {
	if len(days) == 0 {
		return true
	}

	today := g.now().In(g.loc).Weekday()
	for _, day := range days {
		name := normalizeDay(day)
		if name == "daily" {
			return true
		}
		if wd, ok := weekdays[name]; ok && wd == today {
			return true
		}
	}
	return false
}

// ValidateDays checks that every entry is a recognized weekday name or "daily"
func ValidateDays(days []string) error {
	for _, day := range days {
		name := normalizeDay(day)
		if name == "daily" {
			continue
		}
		if _, ok := weekdays[name]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
	}
	return nil
}

func normalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}
