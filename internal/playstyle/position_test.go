package playstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-cbb-metrics/internal/model"
)

func TestClassifyPositionKnownLabels(t *testing.T) {
	for _, label := range KnownPositions() {
		w := ClassifyPosition(label)
		assert.InDelta(t, 1.0, w.Sum(), eps, "label %s", label)
	}
	assert.Equal(t, model.FamilyWeights{1, 0, 0}, ClassifyPosition("PG"))
	assert.Equal(t, model.FamilyWeights{0, 0.2, 0.8}, ClassifyPosition("PF/C"))
	assert.Equal(t, model.FamilyWeights{0, 0, 1}, ClassifyPosition("C"))
}

func TestClassifyPositionUnknownFallsBack(t *testing.T) {
	for _, label := range []string{"??", "G?", "", "pg", "F"} {
		if got := ClassifyPosition(label); got != UnknownFamilyWeights {
			t.Errorf("ClassifyPosition(%q) = %v, want %v", label, got, UnknownFamilyWeights)
		}
	}
}

func TestPlayerWeightsUsesRosterWhenLabelMissing(t *testing.T) {
	roster := model.NewRoster([]model.Player{{Code: "big", Position: "C"}})

	assert.Equal(t, model.FamilyWeights{0, 0, 1}, playerWeights("big", "", roster))
	assert.Equal(t, model.FamilyWeights{1, 0, 0}, playerWeights("big", "PG", roster))
	assert.Equal(t, UnknownFamilyWeights, playerWeights("nobody", "", roster))
}
