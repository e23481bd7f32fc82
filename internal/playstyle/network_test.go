package playstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cbb-metrics/internal/model"
)

func TestBuildPlayerNetworkScalesSourceEdges(t *testing.T) {
	s := model.StatSet{}
	setShots(s, model.PlayerTotal, model.ShotRim, 3, 3, 3)
	setNetwork(s, model.ShotRim, model.SideSource, map[string]any{"c": 1.0, "b": 2.0})
	setNetwork(s, model.Shot3P, model.SideTarget, map[string]any{"b": 1.0})
	p := model.Player{Code: "a", Stats: s}

	style := Decompose(p, nil, DecomposeOptions{Mode: PlaysPct})
	net := BuildPlayerNetwork(p, style, nil)

	require.Len(t, net.Source, 2)
	assert.Equal(t, "b", net.Source[0].Teammate)
	assert.InDelta(t, 2.0, net.Source[0].Value, eps)
	assert.Equal(t, "c", net.Source[1].Teammate)
	assert.InDelta(t, 1.0, net.Source[1].Value, eps)
	require.Len(t, net.Target, 1)
	assert.Equal(t, Edge{"b", model.Shot3P, 1}, net.Target[0])
}

func TestBuildPlayerNetworkUnknownTeammate(t *testing.T) {
	s := model.StatSet{}
	setShots(s, model.PlayerTotal, model.ShotMid, 2, 2, 2)
	s[model.PlayerTotal("assist")] = model.Stat(3)
	p := model.Player{Code: "a", Stats: s}

	team := model.StatSet{}
	setShots(team, model.TeamTotal, model.ShotRim, 3, 4, 3)
	setShots(team, model.TeamTotal, model.Shot3P, 1, 4, 1)

	style := Decompose(p, team, DecomposeOptions{Mode: PlaysPct})
	net := BuildPlayerNetwork(p, style, team)

	require.Len(t, net.Source, 1)
	assert.Equal(t, UnknownTeammate, net.Source[0].Teammate)
	assert.InDelta(t, 2.0, net.Source[0].Value, eps)

	var given float64
	for _, e := range net.Target {
		assert.Equal(t, UnknownTeammate, e.Teammate)
		given += e.Value
	}
	assert.InDelta(t, 3.0, given, eps)
}

func TestNewAssistMatrixIsZeroFilled(t *testing.T) {
	m := newAssistMatrix(PlaysPct, 1)
	for _, s := range model.Families {
		for _, p := range model.Families {
			for _, st := range model.ShotTypes {
				for _, key := range []string{SourceKey(st), TargetKey(st), EFGKey(st)} {
					assert.True(t, m.Cells[s][p].Has(key), "cell %s/%s missing %s", s, p, key)
				}
			}
		}
	}
	for r := range m.Rows {
		for _, f := range model.Families {
			assert.True(t, m.Rows[r][f].Has(KeySourceTO))
			assert.True(t, m.Rows[r][f].Has(KeyTargetAst))
		}
	}
}

func TestHalfCourtRetain(t *testing.T) {
	got := halfCourtRetain([3]float64{10, 10, 0}, [3]float64{4, 12, 3})
	assert.InDelta(t, 0.6, got[0], eps)
	assert.InDelta(t, 0.0, got[1], eps)
	assert.InDelta(t, 1.0, got[2], eps)
}

func TestBuildTeamMatrixPlacesAssistByFamily(t *testing.T) {
	players, roster, team := assistPair()
	m := BuildTeamMatrix(players, roster, team, DecomposeOptions{Mode: PlaysPct, SeparateHalfCourt: true})

	assert.InDelta(t, 4.0, m.Norm, eps)
	key := SourceKey(model.ShotRim)
	assert.InDelta(t, 1.0, m.Cells[model.Ballhandler][model.Big].Value(key), eps)
	assert.InDelta(t, 1.0, m.Cells[model.Ballhandler][model.Big].Value(TargetKey(model.ShotRim)), eps)
	assert.InDelta(t, 1.0, m.Cells[model.Ballhandler][model.Big].Value(EFGKey(model.ShotRim)), eps)
	for _, s := range model.Families {
		for _, p := range model.Families {
			if s == model.Ballhandler && p == model.Big {
				continue
			}
			assert.Zero(t, m.Cells[s][p].Value(key), "cell %s/%s", s, p)
		}
	}
	assert.InDelta(t, 1.0, m.Rows[RowAssisted][model.Ballhandler].Value(key), eps)
}

func TestBuildIndivMatrixPasserSide(t *testing.T) {
	players, roster, team := assistPair()
	m := BuildIndivMatrix(players[1], roster, team, DecomposeOptions{Mode: PlaysPct, SeparateHalfCourt: true})

	assert.InDelta(t, 4.0, m.Norm, eps)
	assert.InDelta(t, 1.0, m.Cells[model.Ballhandler][model.Big].Value(TargetKey(model.ShotRim)), eps)
	assert.Zero(t, m.Cells[model.Ballhandler][model.Big].Value(SourceKey(model.ShotRim)))
}

func TestAssistMatrixCloneIsDeep(t *testing.T) {
	m := newAssistMatrix(PlaysPct, 1)
	c := m.Clone()
	c.Cells[0][0].Add(SourceKey(model.ShotRim), 1)
	c.Rows[0][0].Add(KeySourceTO, 1)
	assert.Zero(t, m.Cells[0][0].Value(SourceKey(model.ShotRim)))
	assert.Zero(t, m.Rows[0][0].Value(KeySourceTO))
}
