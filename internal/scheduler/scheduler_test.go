package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestInQuietHours(t *testing.T) {
	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		if err != nil {
			t.Fatalf("bad test clock %q: %v", hhmm, err)
		}
		return time.Date(2026, 3, 10, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		now        string
		start, end *string
		want       bool
	}{
		{"no preferences set", "23:00", nil, nil, false},
		{"empty bounds", "23:00", strPtr(""), strPtr(""), false},
		{"malformed start", "23:00", strPtr("late"), strPtr("07:00"), false},
		{"inside same-day window", "13:00", strPtr("12:00"), strPtr("14:00"), true},
		{"before same-day window", "11:59", strPtr("12:00"), strPtr("14:00"), false},
		{"at window start", "12:00", strPtr("12:00"), strPtr("14:00"), true},
		{"at window end is outside", "14:00", strPtr("12:00"), strPtr("14:00"), false},
		{"midnight wrap late evening", "23:30", strPtr("22:00"), strPtr("07:00"), true},
		{"midnight wrap early morning", "06:59", strPtr("22:00"), strPtr("07:00"), true},
		{"midnight wrap daytime", "12:00", strPtr("22:00"), strPtr("07:00"), false},
		{"equal bounds means no window", "03:00", strPtr("03:00"), strPtr("03:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inQuietHours(at(tt.now), tt.start, tt.end))
		})
	}
}

func TestPlanningTimePassed(t *testing.T) {
	morning := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
	afternoon := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.False(t, planningTimePassed(morning, "08:00"))
	assert.True(t, planningTimePassed(afternoon, "08:00"))
	assert.True(t, planningTimePassed(morning, "07:30"), "exact minute counts as passed")
	assert.True(t, planningTimePassed(morning, "nonsense"), "malformed time falls back to passed")
}
