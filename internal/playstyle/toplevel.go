package playstyle

import (
	"github.com/pable/go-cbb-metrics/internal/model"
)

// passerCredit is the share of a play credited to the passer in the
// individual view.
const passerCredit = 0.25

// Options controls play-style aggregation.
type Options struct {
	// AvgEfficiency enables adjPts on individual outputs when positive.
	AvgEfficiency float64
	// SeparateHalfCourt splits scramble and transition plays out into
	// Put-Back and Transition.
	SeparateHalfCourt bool
}

// DefaultOptions returns half-court separation on, no efficiency adjustment.
func DefaultOptions() Options {
	return Options{SeparateHalfCourt: true}
}

// BuildTopLevelPlayStyles returns the team's canonical play-type breakdown.
// Only scorer-side entries are summed so a pass and its shot count once.
func BuildTopLevelPlayStyles(players []model.Player, roster model.Roster, teamStats model.StatSet, opts Options) PlayStyle {
	playsOpts := DecomposeOptions{Mode: PlaysPct, SeparateHalfCourt: opts.SeparateHalfCourt}
	pointsOpts := DecomposeOptions{Mode: PointsPer100, SeparateHalfCourt: opts.SeparateHalfCourt}

	plays := BuildTeamMatrix(players, roster, teamStats, playsOpts)
	plays = ApplyTeamTurnovers(plays, teamStats, players, playsOpts)
	points := BuildTeamMatrix(players, roster, teamStats, pointsOpts)

	playsAcc := make(map[TopLevelPlayType]float64)
	pointsAcc := make(map[TopLevelPlayType]float64)
	collectScorer(plays, opts.SeparateHalfCourt, func(t TopLevelPlayType, v float64) { playsAcc[t] += v })
	collectScorer(points, opts.SeparateHalfCourt, func(t TopLevelPlayType, v float64) { pointsAcc[t] += v / 100 })
	playsAcc[Misc] += plays.UnattributedTO

	out := make(PlayStyle, len(TopLevelPlayTypes))
	for _, t := range TopLevelPlayTypes {
		out[t] = PlayTypeStat{PossPct: playsAcc[t], Pts: ptsPerPlay(pointsAcc[t], playsAcc[t])}
	}
	return out
}

// BuildTopLevelIndivPlayStyles returns one player's extended breakdown.
// Scorer-side entries count in full; the passer side of the player's
// assists counts at passerCredit. Unattributed turnovers are never charged
// to an individual so Misc stays 0.
func BuildTopLevelIndivPlayStyles(player model.Player, roster model.Roster, teamStats model.StatSet, opts Options) IndivPlayStyle {
	playsOpts := DecomposeOptions{Mode: PlaysPct, SeparateHalfCourt: opts.SeparateHalfCourt}
	pointsOpts := DecomposeOptions{Mode: PointsPer100, SeparateHalfCourt: opts.SeparateHalfCourt}

	plays := ApplyIndivTurnovers(BuildIndivMatrix(player, roster, teamStats, playsOpts))
	points := BuildIndivMatrix(player, roster, teamStats, pointsOpts)

	playsAcc := make(map[IndivPlayType]float64)
	pointsAcc := make(map[IndivPlayType]float64)
	collectIndiv(plays, opts.SeparateHalfCourt, func(t IndivPlayType, v float64) { playsAcc[t] += v })
	collectIndiv(points, opts.SeparateHalfCourt, func(t IndivPlayType, v float64) { pointsAcc[t] += v / 100 })

	usage := player.Stats.Value("off_usage")
	if usage <= 0 {
		usage = TotalPlaysMade(player.Stats) / TeamPlays(teamStats)
	}
	adjOpp := player.Stats.Value("off_adj_opp")

	out := make(IndivPlayStyle, len(IndivPlayTypes))
	for _, t := range IndivPlayTypes {
		st := PlayTypeStat{PossPct: playsAcc[t], Pts: ptsPerPlay(pointsAcc[t], playsAcc[t])}
		usg := st.PossPct * usage
		st.PossPctUsg = &usg
		if opts.AvgEfficiency > 0 && adjOpp > 0 {
			adj := st.Pts * opts.AvgEfficiency / adjOpp
			st.AdjPts = &adj
		}
		out[t] = st
	}
	return out
}

func ptsPerPlay(points, plays float64) float64 {
	if plays > 0 {
		return points / plays
	}
	return 0
}

// rowTotal sums the scorer-side entries of a decomposition row.
func rowTotal(row model.StatSet) float64 {
	var sum float64
	for _, st := range model.ShotTypes {
		sum += row.Value(SourceKey(st))
	}
	return sum + row.Value(KeySourceSF) + row.Value(KeySourceTO)
}

// distribute pushes v through the lookup-table entry for key.
func distribute(key string, v float64, emit func(TopLevelPlayType, float64)) {
	if v == 0 {
		return
	}
	for _, w := range PlayTypeTable[key] {
		emit(w.Type, v*w.Weight)
	}
}

// collectScorer walks every scorer-side entry of a matrix.
func collectScorer(m AssistMatrix, separateHalfCourt bool, emit func(TopLevelPlayType, float64)) {
	for _, f := range model.Families {
		unast := m.Rows[RowUnassisted][f]
		for _, st := range model.ShotTypes {
			distribute(UnassistedKey(f, st), unast.Value(SourceKey(st)), emit)
			for _, p := range model.Families {
				distribute(AssistedKey(f, st, p), m.Cells[f][p].Value(SourceKey(st)), emit)
			}
		}
		distribute(FoulKey(f), unast.Value(KeySourceSF), emit)
		if separateHalfCourt {
			emit(PutBack, rowTotal(m.Rows[RowScramble][f]))
			emit(Transition, rowTotal(m.Rows[RowTransition][f]))
		}
	}
}

func collectIndiv(m AssistMatrix, separateHalfCourt bool, emit func(IndivPlayType, float64)) {
	collectScorer(m, separateHalfCourt, func(t TopLevelPlayType, v float64) { emit(asScorer(t), v) })
	for _, s := range model.Families {
		for _, st := range model.ShotTypes {
			for _, p := range model.Families {
				v := passerCredit * m.Cells[s][p].Value(TargetKey(st))
				distribute(AssistedKey(s, st, p), v, func(t TopLevelPlayType, v float64) { emit(asPasser(t), v) })
			}
		}
	}
	if !separateHalfCourt {
		return
	}
	for _, f := range model.Families {
		emit(IndivPutBack, passerCredit*m.Rows[RowScramble][f].Value(KeyTargetAst))
		emit(IndivTransition, passerCredit*m.Rows[RowTransition][f].Value(KeyTargetAst))
	}
}
