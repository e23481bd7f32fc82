package playstyle

import (
	"math"
	"testing"

	"github.com/pable/go-cbb-metrics/internal/model"
)

const eps = 1e-9

// setShots writes made/attempts/assisted for one shot type under a prefix.
func setShots(s model.StatSet, name func(string) string, st model.ShotType, made, att, ast float64) {
	s[name(model.ShotField(st, model.KindMade))] = model.Stat(made)
	s[name(model.ShotField(st, model.KindAttempts))] = model.Stat(att)
	s[name(model.ShotField(st, model.KindAst))] = model.Stat(ast)
}

// setContextShots writes scramble or transition shooting totals.
func setContextShots(s model.StatSet, name func(string) string, ctx string, st model.ShotType, made, att, ast float64) {
	s[name(model.ContextShotField(ctx, st, model.KindMade))] = model.Stat(made)
	s[name(model.ContextShotField(ctx, st, model.KindAttempts))] = model.Stat(att)
	s[name(model.ContextShotField(ctx, st, model.KindAst))] = model.Stat(ast)
}

func setNetwork(s model.StatSet, st model.ShotType, side string, counts map[string]any) {
	var total float64
	for _, v := range counts {
		total += v.(float64)
	}
	s[model.AssistNetworkField(st, side)] = model.Statistic{Value: total, ExtraInfo: counts}
}

func assertFinite(t *testing.T, rows [NumRowTypes]model.StatSet) {
	t.Helper()
	for r, row := range rows {
		for k, v := range row {
			if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
				t.Errorf("row %s key %s: non-finite value %v", RowType(r), k, v.Value)
			}
		}
	}
}

// assistPair builds a PG scorer finished at the rim by a C passer, with
// team totals matching the two of them.
func assistPair() ([]model.Player, model.Roster, model.StatSet) {
	scorer := model.StatSet{}
	setShots(scorer, model.PlayerTotal, model.ShotRim, 4, 4, 4)
	setNetwork(scorer, model.ShotRim, model.SideSource, map[string]any{"big": 4.0})

	passer := model.StatSet{}
	passer[model.PlayerTotal("assist")] = model.Stat(4)
	setNetwork(passer, model.ShotRim, model.SideTarget, map[string]any{"guard": 4.0})

	team := model.StatSet{}
	setShots(team, model.TeamTotal, model.ShotRim, 4, 4, 4)
	team[model.TeamTotal("assist")] = model.Stat(4)

	players := []model.Player{
		{Code: "guard", Position: "PG", Stats: scorer},
		{Code: "big", Position: "C", Stats: passer},
	}
	return players, model.NewRoster(players), team
}
