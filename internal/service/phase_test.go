package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPhase(t *testing.T) {
	t.Run("classifies each phase by elapsed hours", func(t *testing.T) {
		tests := []struct {
			name    string
			elapsed float64
			want    string
		}{
			{"fast just started", 0, "Glycogen Depletion"},
			{"mid first phase", 6.5, "Glycogen Depletion"},
			{"just under twelve hours", 11.99, "Glycogen Depletion"},
			{"exactly twelve hours", 12, "Ketosis Begins"},
			{"just under twenty four hours", 23.99, "Ketosis Begins"},
			{"exactly twenty four hours", 24, "Deep Ketosis"},
			{"exactly thirty six hours", 36, "Peak Metabolic State"},
			{"just under forty eight hours", 47.99, "Peak Metabolic State"},
			{"exactly forty eight hours", 48, "Extended Fasting"},
			{"well past all boundaries", 100, "Extended Fasting"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				phase := ClassifyPhase(tt.elapsed)
				assert.Equal(t, tt.want, phase.Name)
			})
		}
	})

	t.Run("every phase carries a description and color", func(t *testing.T) {
		for _, elapsed := range []float64{0, 12, 24, 36, 48} {
			phase := ClassifyPhase(elapsed)
			assert.NotEmpty(t, phase.Description)
			assert.Regexp(t, `^#[0-9a-f]{6}$`, phase.Color)
		}
	})

	t.Run("boundaries are contiguous", func(t *testing.T) {
		// Stepping one hundredth of an hour across a boundary must
		// land in the next phase with no gap.
		before := ClassifyPhase(11.99)
		after := ClassifyPhase(12.00)
		assert.NotEqual(t, before.Name, after.Name)
		assert.Equal(t, "Ketosis Begins", after.Name)
	})
}
