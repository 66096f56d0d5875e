package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  time.Time
	}{
		{"monday is its own start", monday},
		{"midweek", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"sunday belongs to the preceding monday", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, weekStart(tt.day))
		})
	}
}
