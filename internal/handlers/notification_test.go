package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidClock(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"09:z~", false},
		{"0a:30", false},
		{"9:30", false},
		{"noon!", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, validClock(tt.in))
		})
	}
}
