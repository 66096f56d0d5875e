package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakdownEmpty(t *testing.T) {
	completed, total, byCategory := Breakdown(nil)
	assert.Equal(t, 0, completed)
	assert.Equal(t, 0, total)
	assert.Empty(t, byCategory)
}

func TestBreakdown(t *testing.T) {
	rows := []taskRow{
		{Category: "health", Completed: true},
		{Category: "health", Completed: false},
		{Category: "health", Completed: true},
		{Category: "finance", Completed: false},
	}

	completed, total, byCategory := Breakdown(rows)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 4, total)
	assert.Equal(t, CategoryCount{Completed: 2, Total: 3}, byCategory["health"])
	assert.Equal(t, CategoryCount{Completed: 0, Total: 1}, byCategory["finance"])
}
