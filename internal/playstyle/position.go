// Package playstyle derives the play-type taxonomy for teams and players from
// flat box-score stat sets: position-family classification, per-player style
// decomposition, assist-network collapse, turnover apportionment and the final
// play-type aggregation. Every function is pure.
package playstyle

import "github.com/pable/go-cbb-metrics/internal/model"

// positionFamilyWeights maps a roster position label to its
// {ballhandler, wing, big} weight triple.
var positionFamilyWeights = map[string]model.FamilyWeights{
	"PG":   {1.0, 0.0, 0.0},
	"s-PG": {0.8, 0.2, 0.0},
	"CG":   {0.5, 0.5, 0.0},
	"WG":   {0.2, 0.8, 0.0},
	"WF":   {0.0, 0.8, 0.2},
	"S-PF": {0.0, 0.5, 0.5},
	"PF/C": {0.0, 0.2, 0.8},
	"C":    {0.0, 0.0, 1.0},
}

// UnknownFamilyWeights is used for labels missing from the table ("??", "G?", "").
var UnknownFamilyWeights = model.FamilyWeights{0.3, 0.4, 0.3}

// ClassifyPosition returns the family weight triple for a position label.
// The continuous position-confidence vector is intentionally not consulted:
// stored leaderboards were built from the discrete label lookup.
func ClassifyPosition(label string) model.FamilyWeights {
	if w, ok := positionFamilyWeights[label]; ok {
		return w
	}
	return UnknownFamilyWeights
}

// KnownPositions returns the labels the classifier recognises, in a stable order.
func KnownPositions() []string {
	return []string{"PG", "s-PG", "CG", "WG", "WF", "S-PF", "PF/C", "C"}
}

// playerWeights prefers the player's own label, then the roster entry's.
func playerWeights(code, label string, roster model.Roster) model.FamilyWeights {
	if label == "" {
		if r, ok := roster[code]; ok {
			label = r.Position
		}
	}
	return ClassifyPosition(label)
}
