package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"high", PriorityHigh},
		{"High", PriorityHigh},
		{" LOW ", PriorityLow},
		{"medium", PriorityMedium},
		{"urgent", PriorityMedium},
		{"", PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePriority(tt.in))
		})
	}
}

func TestPriorityOrdering(t *testing.T) {
	assert.True(t, PriorityHigh.IsHigherThan(PriorityMedium))
	assert.True(t, PriorityMedium.IsHigherThan(PriorityLow))
	assert.False(t, PriorityLow.IsHigherThan(PriorityHigh))
	assert.False(t, PriorityLow.IsHigherThan(PriorityLow))
	assert.Equal(t, "high", PriorityHigh.String())
}
