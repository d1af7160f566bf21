package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-pass-vault/internal/generator"
)

func TestRenderMeter(t *testing.T) {
	tests := []struct {
		name      string
		st        generator.Strength
		wantLabel string
		wantFill  int
	}{
		{"weak", generator.Strength{Score: 10}, "weak", 2},
		{"fair", generator.Strength{Score: 55}, "fair", 11},
		{"strong", generator.Strength{Score: 100, IsStrong: true}, "strong", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderMeter(tt.st)
			assert.True(t, strings.HasSuffix(got, tt.wantLabel))
			assert.Equal(t, tt.wantFill, strings.Count(got, "█"))
			assert.Equal(t, meterWidth-tt.wantFill, strings.Count(got, "░"))
		})
	}
}

func TestRenderStrength_Feedback(t *testing.T) {
	st := generator.Strength{
		Score:       30,
		Feedback:    []string{"add more words", "avoid dates"},
		EntropyBits: 28.4,
		CrackTime:   "3 hours",
	}

	got := renderStrength(st)
	assert.Contains(t, got, "  - add more words\n")
	assert.Contains(t, got, "  - avoid dates\n")
	assert.Contains(t, got, "3 hours")
	assert.Contains(t, got, "28 bits")
}
