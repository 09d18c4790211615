package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-02 was a Monday
func mondayNoonUTC() time.Time {
	return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
}

func TestGateDue(t *testing.T) {
	gate, err := NewGateAt("UTC", mondayNoonUTC)
	require.NoError(t, err)

	tests := []struct {
		name string
		days []string
		want bool
	}{
		{"empty schedule runs every day", nil, true},
		{"daily runs every day", []string{"daily"}, true},
		{"matching day", []string{"monday"}, true},
		{"non-matching day", []string{"tuesday"}, false},
		{"one of several matches", []string{"friday", "monday"}, true},
		{"case insensitive", []string{"MONDAY"}, true},
		{"surrounding whitespace", []string{" monday "}, true},
		{"unknown day never matches", []string{"someday"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Due(tt.days))
		})
	}
}

func TestGateTimezoneBoundary(t *testing.T) {
	// 23:30 UTC Monday is already Tuesday in Helsinki (UTC+3 in June)
	lateMonday := func() time.Time {
		return time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC)
	}

	utcGate, err := NewGateAt("UTC", lateMonday)
	require.NoError(t, err)
	assert.True(t, utcGate.Due([]string{"monday"}))
	assert.False(t, utcGate.Due([]string{"tuesday"}))

	helsinkiGate, err := NewGateAt("Europe/Helsinki", lateMonday)
	require.NoError(t, err)
	assert.False(t, helsinkiGate.Due([]string{"monday"}))
	assert.True(t, helsinkiGate.Due([]string{"tuesday"}))
}

func TestNewGate(t *testing.T) {
	t.Run("empty means UTC", func(t *testing.T) {
		gate, err := NewGate("")
		require.NoError(t, err)
		assert.Equal(t, time.UTC, gate.Location())
	})

	t.Run("invalid timezone", func(t *testing.T) {
		_, err := NewGate("Not/AZone")
		assert.Error(t, err)
	})
}

func TestValidateDays(t *testing.T) {
	assert.NoError(t, ValidateDays(nil))
	assert.NoError(t, ValidateDays([]string{"monday", "Sunday", " FRIDAY "}))
	assert.NoError(t, ValidateDays([]string{"daily"}))
	assert.Error(t, ValidateDays([]string{"monday", "caturday"}))
}
