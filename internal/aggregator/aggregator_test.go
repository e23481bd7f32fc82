package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
	"github.com/pable/go-cbb-metrics/internal/rating"
)

func shots(s model.StatSet, name func(string) string, st model.ShotType, made, att, ast float64) {
	s[name(model.ShotField(st, model.KindMade))] = model.Stat(made)
	s[name(model.ShotField(st, model.KindAttempts))] = model.Stat(att)
	s[name(model.ShotField(st, model.KindAst))] = model.Stat(ast)
}

// makeSample builds a two-player sample: a guard who scores at the rim and
// from three, and a center fed by the guard.
func makeSample() *model.Sample {
	guard := model.StatSet{
		model.PlayerTotal("fta"):    model.Stat(6),
		model.PlayerTotal("ftm"):    model.Stat(4),
		model.PlayerTotal("to"):     model.Stat(3),
		model.PlayerTotal("assist"): model.Stat(4),
		"off_poss":                  model.Stat(40),
		"off_adj_opp":               model.Stat(100),
		model.PlayerDefTotal("stl"): model.Stat(2),
		model.PlayerDefTotal("drb"): model.Stat(3),
	}
	shots(guard, model.PlayerTotal, model.Shot3P, 4, 10, 0)
	shots(guard, model.PlayerTotal, model.ShotRim, 5, 8, 0)
	guard[model.AssistNetworkField(model.ShotRim, model.SideTarget)] = model.Statistic{
		Value: 4, ExtraInfo: map[string]any{"big": 4.0},
	}

	center := model.StatSet{
		model.PlayerTotal("to"):     model.Stat(2),
		"off_poss":                  model.Stat(35),
		model.PlayerDefTotal("blk"): model.Stat(3),
		model.PlayerDefTotal("drb"): model.Stat(8),
	}
	shots(center, model.PlayerTotal, model.ShotRim, 8, 12, 4)
	center[model.AssistNetworkField(model.ShotRim, model.SideSource)] = model.Statistic{
		Value: 4, ExtraInfo: map[string]any{"guard": 4.0},
	}

	team := model.StatSet{
		model.TeamTotal("fta"):     model.Stat(6),
		model.TeamTotal("ftm"):     model.Stat(4),
		model.TeamTotal("to"):      model.Stat(5),
		model.TeamTotal("poss"):    model.Stat(70),
		model.TeamDefTotal("poss"): model.Stat(70),
		model.TeamDefTotal("stl"):  model.Stat(4),
		model.TeamDefTotal("blk"):  model.Stat(4),
		model.TeamDefTotal("drb"):  model.Stat(20),
		model.TeamDefTotal("foul"): model.Stat(12),
		model.OppoTotal("fta"):     model.Stat(15),
		model.OppoTotal("ftm"):     model.Stat(10),
		model.OppoTotal("orb"):     model.Stat(8),
		model.OppoTotal("to"):      model.Stat(11),
		"def_adj_opp":              model.Stat(105),
	}
	shots(team, model.TeamTotal, model.Shot3P, 4, 10, 0)
	shots(team, model.TeamTotal, model.ShotRim, 13, 20, 4)
	shots(team, model.OppoTotal, model.Shot3P, 8, 24, 5)
	shots(team, model.OppoTotal, model.ShotRim, 12, 22, 4)

	return &model.Sample{
		Hash:      "cafe01",
		Team:      "Maryland",
		Season:    "2024",
		Context:   "baseline",
		TeamStats: team,
		Players: []model.Player{
			{Code: "guard", Position: "PG", Stats: guard},
			{Code: "big", Position: "C", Stats: center},
		},
	}
}

func TestAggregateProducesEveryOutput(t *testing.T) {
	s := makeSample()
	res, err := Aggregate(context.Background(), s, Options{AvgEfficiency: 103, SeparateHalfCourt: true})
	require.NoError(t, err)

	assert.Equal(t, 103.0, res.AvgEfficiency)
	assert.Len(t, res.Team, len(playstyle.TopLevelPlayTypes))
	assert.Greater(t, res.Team.TotalPossPct(), 0.0)

	require.Len(t, res.Players, 2)
	assert.Equal(t, "guard", res.Players[0].Code)
	assert.Equal(t, "big", res.Players[1].Code)

	for _, p := range res.Players {
		assert.Len(t, p.Style, len(playstyle.IndivPlayTypes))
		back := playstyle.Decompress(p.Compressed)
		for _, pt := range playstyle.IndivPlayTypes {
			assert.InDelta(t, p.Style[pt].PossPct, back[pt].PossPct, 1e-12, "%s %s", p.Code, pt)
		}
		require.NotNil(t, p.Rating.ORtg, p.Code)
		require.NotNil(t, p.Rating.DRtg, p.Code)
		assert.Equal(t, "cafe01", p.Rating.SampleHash)
		assert.Nil(t, p.ORtg.Diagnostics, "diagnostics dropped unless requested")
	}

	guard, ok := res.Player("guard")
	require.True(t, ok)
	assert.Equal(t, 40.0, guard.Rating.OffPoss)
	assert.Greater(t, guard.Style[playstyle.IndivRimAttack].PossPct, 0.0)

	assert.Len(t, res.Ratings(), 2)
	assert.Contains(t, res.CompressedStyles(), "big")
}

func TestAggregatePrefersSampleEfficiency(t *testing.T) {
	s := makeSample()
	s.AvgEfficiency = 108
	res, err := Aggregate(context.Background(), s, Options{AvgEfficiency: 103, Diagnostics: true})
	require.NoError(t, err)
	assert.Equal(t, 108.0, res.AvgEfficiency)

	guard, _ := res.Player("guard")
	require.NotNil(t, guard.ORtg.Diagnostics)
	assert.Equal(t, 108.0, guard.ORtg.Diagnostics.AvgEfficiency)
	require.NotNil(t, guard.Style[playstyle.IndivRimAttack].AdjPts)
}

func TestAggregateMatchesDirectEngineCalls(t *testing.T) {
	s := makeSample()
	res, err := Aggregate(context.Background(), s, Options{AvgEfficiency: 103, SeparateHalfCourt: true})
	require.NoError(t, err)

	roster := model.NewRoster(s.Players)
	direct := rating.BuildORtg(s.PlayerContext(s.Players[1]), roster, 103, false, true)
	big, _ := res.Player("big")
	assert.InDelta(t, direct.Rating.Value, *big.Rating.ORtg, 1e-12)

	team := playstyle.BuildTopLevelPlayStyles(s.Players, roster, s.TeamStats,
		playstyle.Options{AvgEfficiency: 103, SeparateHalfCourt: true})
	for _, pt := range playstyle.TopLevelPlayTypes {
		assert.InDelta(t, team[pt].PossPct, res.Team[pt].PossPct, 1e-12, "%s", pt)
	}
}

func TestAggregateErrors(t *testing.T) {
	_, err := Aggregate(context.Background(), nil, Options{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Aggregate(ctx, makeSample(), Options{AvgEfficiency: 103})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWhatIfOffense(t *testing.T) {
	s := makeSample()
	res, err := WhatIf(s, "guard", rating.SideOffense, rating.Deltas{ThreeP: 0.1}, 103)
	require.NoError(t, err)
	require.NotNil(t, res.ORtg)
	assert.Nil(t, res.DRtg)

	run := res.Run
	require.NotNil(t, run.Rating)
	require.NotNil(t, run.RawRating)
	assert.Greater(t, *run.Rating, *run.RawRating)
	assert.Equal(t, "off", run.Side)
	assert.Equal(t, 0.1, run.Delta3P)
	assert.NotNil(t, res.ORtg.RawDiagnostics)
}

func TestWhatIfDefenseAndErrors(t *testing.T) {
	s := makeSample()
	res, err := WhatIf(s, "big", rating.SideDefense, rating.Deltas{Rim: -0.1}, 103)
	require.NoError(t, err)
	require.NotNil(t, res.DRtg)
	assert.Less(t, *res.Run.Rating, *res.Run.RawRating)

	noop, err := WhatIf(s, "big", rating.SideOffense, rating.Deltas{}, 103)
	require.NoError(t, err)
	assert.Equal(t, *noop.Run.Rating, *noop.Run.RawRating)

	_, err = WhatIf(s, "nobody", rating.SideOffense, rating.Deltas{TO: 0.05}, 103)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = WhatIf(s, "guard", "both", rating.Deltas{TO: 0.05}, 103)
	assert.Error(t, err)
}
