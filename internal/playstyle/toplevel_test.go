package playstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cbb-metrics/internal/model"
)

func TestTeamOfUnassistedRimMakesIsAllRimAttack(t *testing.T) {
	s := model.StatSet{}
	setShots(s, model.PlayerTotal, model.ShotRim, 10, 10, 0)
	players := []model.Player{{Code: "pg", Position: "PG", Stats: s}}
	team := model.StatSet{}
	setShots(team, model.TeamTotal, model.ShotRim, 10, 10, 0)

	got := BuildTopLevelPlayStyles(players, model.NewRoster(players), team, DefaultOptions())

	require.Len(t, got, len(TopLevelPlayTypes))
	assert.InDelta(t, 1.0, got[RimAttack].PossPct, eps)
	assert.InDelta(t, 2.0, got[RimAttack].Pts, eps)
	for _, pt := range TopLevelPlayTypes {
		if pt != RimAttack {
			assert.InDelta(t, 0.0, got[pt].PossPct, eps, string(pt))
			assert.Zero(t, got[pt].Pts, string(pt))
		}
	}
}

func TestTeamPlayStyleAccountsForEveryPlay(t *testing.T) {
	guard := model.StatSet{}
	setShots(guard, model.PlayerTotal, model.ShotRim, 4, 9, 1)
	setShots(guard, model.PlayerTotal, model.Shot3P, 3, 8, 2)
	setNetwork(guard, model.ShotRim, model.SideSource, map[string]any{"wing": 1.0})
	setNetwork(guard, model.Shot3P, model.SideSource, map[string]any{"big": 2.0})
	guard[model.PlayerTotal("fta")] = model.Stat(6)
	guard[model.PlayerTotal("ftm")] = model.Stat(4)
	guard[model.PlayerTotal("assist")] = model.Stat(3)
	guard[model.PlayerTotal("to")] = model.Stat(3)

	wing := model.StatSet{}
	setShots(wing, model.PlayerTotal, model.ShotMid, 3, 7, 2)
	setNetwork(wing, model.ShotMid, model.SideSource, map[string]any{"pg": 2.0})
	wing[model.PlayerTotal("assist")] = model.Stat(1)
	wing[model.PlayerTotal("to")] = model.Stat(1)

	big := model.StatSet{}
	setShots(big, model.PlayerTotal, model.ShotRim, 5, 8, 1)
	setNetwork(big, model.ShotRim, model.SideSource, map[string]any{"pg": 1.0})
	big[model.PlayerTotal("fta")] = model.Stat(4)
	big[model.PlayerTotal("assist")] = model.Stat(2)
	big[model.PlayerTotal("to")] = model.Stat(2)

	team := model.StatSet{}
	setShots(team, model.TeamTotal, model.ShotRim, 9, 17, 2)
	setShots(team, model.TeamTotal, model.ShotMid, 3, 7, 2)
	setShots(team, model.TeamTotal, model.Shot3P, 3, 8, 2)
	team[model.TeamTotal("fta")] = model.Stat(10)
	team[model.TeamTotal("to")] = model.Stat(7)

	players := []model.Player{
		{Code: "pg", Position: "PG", Stats: guard},
		{Code: "wing", Position: "WF", Stats: wing},
		{Code: "big", Position: "??", Stats: big},
	}
	got := BuildTopLevelPlayStyles(players, model.NewRoster(players), team, DefaultOptions())

	assert.InDelta(t, 1.0, got.TotalPossPct(), 1e-9)
	assert.InDelta(t, 1.0/(32+4.75+7), got[Misc].PossPct, 1e-9)
	for _, pt := range TopLevelPlayTypes {
		assert.GreaterOrEqual(t, got[pt].PossPct, 0.0, string(pt))
		if got[pt].PossPct == 0 {
			assert.Zero(t, got[pt].Pts, string(pt))
		}
	}
}

func TestTeamAssistedRimByBigIsBackdoorCut(t *testing.T) {
	players, roster, team := assistPair()
	got := BuildTopLevelPlayStyles(players, roster, team, DefaultOptions())

	assert.InDelta(t, 1.0, got[BackdoorCut].PossPct, eps)
	assert.InDelta(t, 2.0, got[BackdoorCut].Pts, eps)
}

func TestTeamScrambleAndTransition(t *testing.T) {
	s := model.StatSet{}
	setShots(s, model.PlayerTotal, model.ShotRim, 5, 8, 0)
	setContextShots(s, model.PlayerTotal, model.CtxScramble, model.ShotRim, 1, 2, 0)
	setContextShots(s, model.PlayerTotal, model.CtxTransition, model.ShotRim, 3, 3, 0)
	s[model.PlayerTotal("to")] = model.Stat(2)
	s[model.PlayerTotal("trans_to")] = model.Stat(1)
	players := []model.Player{{Code: "c", Position: "C", Stats: s}}

	team := model.StatSet{}
	setShots(team, model.TeamTotal, model.ShotRim, 5, 8, 0)
	setContextShots(team, model.TeamTotal, model.CtxTransition, model.ShotRim, 3, 3, 0)
	team[model.TeamTotal("to")] = model.Stat(2)
	team[model.TeamTotal("trans_to")] = model.Stat(1)

	got := BuildTopLevelPlayStyles(players, model.NewRoster(players), team, DefaultOptions())
	assert.InDelta(t, 2.0/10, got[PutBack].PossPct, eps)
	assert.InDelta(t, 4.0/10, got[Transition].PossPct, eps)
	assert.InDelta(t, 1.5, got[Transition].Pts, eps)
	assert.InDelta(t, 1.0, got.TotalPossPct(), eps)

	flat := BuildTopLevelPlayStyles(players, model.NewRoster(players), team, Options{})
	assert.Zero(t, flat[PutBack].PossPct)
	assert.Zero(t, flat[Transition].PossPct)
	assert.InDelta(t, 1.0, flat.TotalPossPct(), eps)
}

func TestIndivScorerAndPasserSides(t *testing.T) {
	players, roster, team := assistPair()

	scorer := BuildTopLevelIndivPlayStyles(players[0], roster, team, DefaultOptions())
	require.Len(t, scorer, len(IndivPlayTypes))
	assert.InDelta(t, 1.0, scorer[IndivBackdoorCut].PossPct, eps)
	assert.Zero(t, scorer[IndivHitsCutter].PossPct)
	require.NotNil(t, scorer[IndivBackdoorCut].PossPctUsg)
	assert.InDelta(t, 1.0, *scorer[IndivBackdoorCut].PossPctUsg, eps)
	assert.Nil(t, scorer[IndivBackdoorCut].AdjPts)

	passer := BuildTopLevelIndivPlayStyles(players[1], roster, team, DefaultOptions())
	assert.InDelta(t, passerCredit, passer[IndivHitsCutter].PossPct, eps)
	assert.Zero(t, passer[IndivBackdoorCut].PossPct)
	assert.Zero(t, passer[IndivMisc].PossPct)
}

func TestIndivSniperVariants(t *testing.T) {
	shooter := model.StatSet{}
	setShots(shooter, model.PlayerTotal, model.Shot3P, 2, 2, 2)
	setNetwork(shooter, model.Shot3P, model.SideSource, map[string]any{"c": 2.0})
	shooter["off_usage"] = model.Stat(0.2)
	shooter["off_adj_opp"] = model.Stat(100)
	players := []model.Player{
		{Code: "wg", Position: "WG", Stats: shooter},
		{Code: "c", Position: "C", Stats: model.StatSet{}},
	}
	team := model.StatSet{}
	setShots(team, model.TeamTotal, model.Shot3P, 2, 2, 2)

	opts := DefaultOptions()
	opts.AvgEfficiency = 110
	got := BuildTopLevelIndivPlayStyles(players[0], model.NewRoster(players), team, opts)

	// WG weights 0.2 ballhandler / 0.8 wing; a 3 off a big's pass is Post & Kick.
	assert.InDelta(t, 1.0, got[IndivPostKickSniper].PossPct, eps)
	assert.Zero(t, got[IndivPostAndKick].PossPct)
	assert.InDelta(t, 3.0, got[IndivPostKickSniper].Pts, eps)
	require.NotNil(t, got[IndivPostKickSniper].PossPctUsg)
	assert.InDelta(t, 0.2, *got[IndivPostKickSniper].PossPctUsg, eps)
	require.NotNil(t, got[IndivPostKickSniper].AdjPts)
	assert.InDelta(t, 3.3, *got[IndivPostKickSniper].AdjPts, eps)

	canon := got.Canonical()
	assert.InDelta(t, 1.0, canon[PostAndKick].PossPct, eps)
}

func TestIndivZeroPlayerIsFinite(t *testing.T) {
	got := BuildTopLevelIndivPlayStyles(model.Player{Code: "x"}, nil, nil, DefaultOptions())
	require.Len(t, got, len(IndivPlayTypes))
	assert.Zero(t, got.TotalPossPct())
}
