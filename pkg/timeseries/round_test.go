package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		places   int32
		expected float64
	}{
		{"one decimal", 3.14159, 1, 3.1},
		{"half up", 2.25, 1, 2.3},
		{"negative half", -2.25, 1, -2.3},
		{"integer", 23.333, 0, 23},
		{"float noise", 0.1 + 0.2, 1, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round(tt.value, tt.places))
		})
	}
}

func TestRound_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(Round(math.NaN(), 1)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 1), 1))
}
