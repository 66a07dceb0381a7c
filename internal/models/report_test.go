package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityScore(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"emergency", 10},
		{"high", 8},
		{"moderate", 5},
		{"low", 3},
		{"", 3},
		{"unknown", 3},
		{"EMERGENCY", 10},
		{"High", 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityScore(tt.level), "level %q", tt.level)
	}
}
