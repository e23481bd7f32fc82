package playstyle

import (
	"fmt"
	"math"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// Mode selects how plays are counted.
type Mode int

const (
	// PlaysPct counts every play once (shots, shooting-foul trips, TOs, assists).
	PlaysPct Mode = iota
	// PointsPer100 weights each play by the points it produced, per 100 plays.
	PointsPer100
	// ScoringPlaysPct counts scoring plays only.
	ScoringPlaysPct
)

func (m Mode) String() string {
	switch m {
	case PointsPer100:
		return "pointsPer100"
	case ScoringPlaysPct:
		return "scoringPlaysPct"
	default:
		return "playsPct"
	}
}

// ParseMode parses a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "playsPct", "":
		return PlaysPct, nil
	case "pointsPer100":
		return PointsPer100, nil
	case "scoringPlaysPct":
		return ScoringPlaysPct, nil
	}
	return PlaysPct, fmt.Errorf("unknown play style mode %q", s)
}

// RowType is one of the four decomposition rows.
type RowType int

const (
	RowUnassisted RowType = iota
	RowAssisted
	RowScramble
	RowTransition
)

// NumRowTypes is the size of every row-indexed array.
const NumRowTypes = 4

func (r RowType) String() string {
	switch r {
	case RowAssisted:
		return "assisted"
	case RowScramble:
		return "scramble"
	case RowTransition:
		return "transition"
	default:
		return "unassisted"
	}
}

// Row and cell field names.
const (
	KeySourceSF  = "source_sf"
	KeySourceTO  = "source_to"
	KeyTargetAst = "target_ast"
)

// SourceKey returns "source_<shot>_ast".
func SourceKey(st model.ShotType) string { return "source_" + st.Short() + "_ast" }

// TargetKey returns "target_<shot>_ast".
func TargetKey(st model.ShotType) string { return "target_" + st.Short() + "_ast" }

// EFGKey returns "source_<shot>_efg".
func EFGKey(st model.ShotType) string { return "source_" + st.Short() + "_efg" }

// ftaPlayWeight converts free-throw attempts into shooting-foul trips.
const ftaPlayWeight = 0.475

// Assisted-miss model constants.
const (
	// fgRegressionAttempts is the pseudo-sample used to shrink a player's
	// shot-type FG% toward the roster baseline.
	fgRegressionAttempts = 10.0
	maxEstimatedFG       = 0.95
)

// leagueFG is the fallback baseline FG% per shot type when the team sample is empty.
var leagueFG = [3]float64{0.34, 0.37, 0.58}

// assistedFGMult and unassistedFGMult scale a baseline FG% into the expected
// make rate of assisted and unassisted attempts.
var (
	assistedFGMult   = [3]float64{1.06, 1.12, 1.10}
	unassistedFGMult = [3]float64{0.90, 0.92, 0.88}
)

// DecomposeOptions controls a decomposition.
type DecomposeOptions struct {
	Mode              Mode
	SeparateHalfCourt bool
}

// PlayerStyle is one player's decomposition. Rows hold mode-weighted counts;
// use Rates for the totalPlaysMade-normalised view.
type PlayerStyle struct {
	Code           string
	Mode           Mode
	TotalPlaysMade float64
	Rows           [NumRowTypes]model.StatSet

	// AssistedAll is the all-context assisted bucket per shot type (including
	// estimated assisted misses in PlaysPct mode).
	AssistedAll [3]float64
	// AssistedNonHalfCourt is the scramble + transition assisted share.
	AssistedNonHalfCourt [3]float64
	// AssistedUplift is AssistedAll / assisted makes, 1 when there are none.
	AssistedUplift [3]float64
	// EFG is the player's effective FG% per shot type.
	EFG [3]float64

	AssistsGiven             float64
	AssistsGivenNonHalfCourt float64
	// HalfCourtTO is the raw half-court turnover count.
	HalfCourtTO float64
}

// Rates returns the rows normalised by norm (PointsPer100 rows are also
// scaled by 100). Provenance is preserved and OldValue is scaled alongside.
func (p PlayerStyle) Rates(norm float64) [NumRowTypes]model.StatSet {
	scale := 1 / orOne(norm)
	if p.Mode == PointsPer100 {
		scale *= 100
	}
	var out [NumRowTypes]model.StatSet
	for r := range p.Rows {
		out[r] = scaleStatSet(p.Rows[r], scale)
	}
	return out
}

// PlayerRates returns the rows normalised by the player's own totalPlaysMade.
func (p PlayerStyle) PlayerRates() [NumRowTypes]model.StatSet {
	return p.Rates(p.TotalPlaysMade)
}

// TotalPlaysMade returns FGA + 0.475 FTA + assists + TO, floored at 1.
func TotalPlaysMade(stats model.StatSet) float64 {
	b := model.ReadBox(stats, model.PlayerTotal)
	return orOne(b.FGA() + ftaPlayWeight*b.FTA + b.Assists + b.TO)
}

// TeamPlays returns team FGA + 0.475 FTA + TO, floored at 1. Assists are not
// plays at team level since the shot they set up is already counted.
func TeamPlays(teamStats model.StatSet) float64 {
	b := model.ReadBox(teamStats, model.TeamTotal)
	return orOne(b.FGA() + ftaPlayWeight*b.FTA + b.TO)
}

// Decompose splits a player's totals into unassisted, assisted, scramble and
// transition rows.
func Decompose(player model.Player, teamStats model.StatSet, opts DecomposeOptions) PlayerStyle {
	stats := player.Stats
	box := model.ReadBox(stats, model.PlayerTotal)
	scr := model.ReadContextBox(stats, model.PlayerTotal, model.CtxScramble)
	trn := model.ReadContextBox(stats, model.PlayerTotal, model.CtxTransition)

	out := PlayerStyle{
		Code:           player.Code,
		Mode:           opts.Mode,
		TotalPlaysMade: TotalPlaysMade(stats),
	}
	for r := range out.Rows {
		out.Rows[r] = model.StatSet{}
	}
	unast := out.Rows[RowUnassisted]
	ast := out.Rows[RowAssisted]

	baseline := rosterBaselineFG(teamStats)
	assistPts := assistPointValue(stats, teamStats)

	for _, st := range model.ShotTypes {
		made, att, astMade := box.Made[st], box.Attempts[st], math.Min(box.Ast[st], box.Made[st])
		unastMade := made - astMade
		out.EFG[st] = made * st.EFGWeight() / orOne(att)
		out.AssistedUplift[st] = 1
		if att <= 0 {
			continue
		}

		var unastVal, astVal model.Statistic
		switch opts.Mode {
		case PointsPer100:
			unastVal = model.Stat(unastMade * st.Points())
			astVal = model.Stat(astMade * st.Points())
			out.AssistedNonHalfCourt[st] = (scr.Ast[st] + trn.Ast[st]) * st.Points()
		case ScoringPlaysPct:
			unastVal = model.Stat(unastMade)
			astVal = model.Stat(astMade)
			out.AssistedNonHalfCourt[st] = scr.Ast[st] + trn.Ast[st]
		default:
			astMisses := estimateAssistedMisses(made, att, astMade, baseline[st], st)
			unastVal = model.Stat(att - astMade)
			astVal = model.Stat(astMade)
			if astMisses > 0 {
				note := fmt.Sprintf("Estimated %.1f assisted misses", astMisses)
				unastVal = unastVal.Replaced(att-astMade-astMisses, note)
				astVal = astVal.Replaced(astMade+astMisses, note)
			}
			if astMade > 0 {
				out.AssistedUplift[st] = (astMade + astMisses) / astMade
			}
			out.AssistedNonHalfCourt[st] = scr.Ast[st] + trn.Ast[st]
		}
		out.AssistedAll[st] = astVal.Value

		if opts.SeparateHalfCourt {
			nonHCAst := math.Min(out.AssistedNonHalfCourt[st], astVal.Value)
			var nonHCUnast float64
			switch opts.Mode {
			case PointsPer100:
				nonHCUnast = (scr.Made[st] + trn.Made[st] - scr.Ast[st] - trn.Ast[st]) * st.Points()
			case ScoringPlaysPct:
				nonHCUnast = scr.Made[st] + trn.Made[st] - scr.Ast[st] - trn.Ast[st]
			default:
				nonHCUnast = scr.Attempts[st] + trn.Attempts[st] - scr.Ast[st] - trn.Ast[st]
			}
			nonHCUnast = math.Min(math.Max(nonHCUnast, 0), unastVal.Value)
			astVal = shift(astVal, -nonHCAst)
			unastVal = shift(unastVal, -nonHCUnast)
		}
		unast[SourceKey(st)] = unastVal
		ast[SourceKey(st)] = astVal
	}

	// Shooting fouls, turnovers and assists given.
	var sf, to, given float64
	switch opts.Mode {
	case PointsPer100:
		sf, to, given = box.FTM, 0, box.Assists*assistPts
		out.AssistsGivenNonHalfCourt = (scr.Assists + trn.Assists) * assistPts
	case ScoringPlaysPct:
		sf, to, given = ftaPlayWeight*box.FTM, 0, box.Assists
		out.AssistsGivenNonHalfCourt = scr.Assists + trn.Assists
	default:
		sf, to, given = ftaPlayWeight*box.FTA, box.TO, box.Assists
		out.AssistsGivenNonHalfCourt = scr.Assists + trn.Assists
	}
	out.AssistsGiven = given
	out.HalfCourtTO = box.TO
	if opts.SeparateHalfCourt {
		sf -= math.Min(sf, contextFoulValue(scr, opts.Mode)+contextFoulValue(trn, opts.Mode))
		if opts.Mode == PlaysPct {
			to -= math.Min(to, scr.TO+trn.TO)
		}
		given -= math.Min(given, out.AssistsGivenNonHalfCourt)
		out.HalfCourtTO -= math.Min(out.HalfCourtTO, scr.TO+trn.TO)
	}
	if box.FTA > 0 {
		unast[KeySourceSF] = model.Stat(sf)
	}
	unast[KeySourceTO] = model.Stat(to)
	ast[KeyTargetAst] = model.Stat(given)

	out.Rows[RowScramble] = contextRow(scr, opts.Mode, assistPts)
	out.Rows[RowTransition] = contextRow(trn, opts.Mode, assistPts)
	return out
}

// estimateAssistedMisses infers how many of a player's misses of one shot
// type came on assisted attempts. The player's FG% is shrunk toward the
// roster baseline, split into assisted and unassisted make rates, and the
// implied attempts are rescaled to the observed total.
func estimateAssistedMisses(made, att, astMade, baseFG float64, st model.ShotType) float64 {
	misses := att - made
	if astMade <= 0 || misses <= 0 {
		return 0
	}
	regFG := (made + fgRegressionAttempts*baseFG) / (att + fgRegressionAttempts)
	astFG := math.Min(maxEstimatedFG, regFG*assistedFGMult[st])
	unastFG := math.Min(maxEstimatedFG, regFG*unassistedFGMult[st])
	if astFG <= 0 || unastFG <= 0 {
		return 0
	}
	expAst := astMade / astFG
	expUnast := (made - astMade) / unastFG
	astAttempts := att * expAst / (expAst + expUnast)
	return clamp(astAttempts-astMade, 0, misses)
}

// rosterBaselineFG returns the team's FG% per shot type, falling back to
// league constants for empty samples.
func rosterBaselineFG(teamStats model.StatSet) [3]float64 {
	team := model.ReadBox(teamStats, model.TeamTotal)
	var out [3]float64
	for _, st := range model.ShotTypes {
		if team.Attempts[st] > 0 {
			out[st] = team.Made[st] / team.Attempts[st]
		} else {
			out[st] = leagueFG[st]
		}
	}
	return out
}

// assistPointValue is the average value of a shot the player assisted, from
// the player's assist network when present, otherwise the team's assisted mix.
func assistPointValue(stats, teamStats model.StatSet) float64 {
	var pts, n float64
	for _, st := range model.ShotTypes {
		c := sumCounts(stats[model.AssistNetworkField(st, model.SideTarget)].CountsByCode())
		pts += c * st.Points()
		n += c
	}
	if n > 0 {
		return pts / n
	}
	team := model.ReadBox(teamStats, model.TeamTotal)
	for _, st := range model.ShotTypes {
		pts += team.Ast[st] * st.Points()
		n += team.Ast[st]
	}
	if n > 0 {
		return pts / n
	}
	return 2
}

func contextFoulValue(c model.ContextBox, mode Mode) float64 {
	switch mode {
	case PointsPer100:
		return c.FTM
	case ScoringPlaysPct:
		return ftaPlayWeight * c.FTM
	default:
		return ftaPlayWeight * c.FTA
	}
}

// contextRow builds a scramble or transition row from exact feed totals.
func contextRow(c model.ContextBox, mode Mode, assistPts float64) model.StatSet {
	row := model.StatSet{}
	for _, st := range model.ShotTypes {
		if c.Attempts[st] <= 0 {
			continue
		}
		switch mode {
		case PointsPer100:
			row[SourceKey(st)] = model.Stat(c.Made[st] * st.Points())
		case ScoringPlaysPct:
			row[SourceKey(st)] = model.Stat(c.Made[st])
		default:
			row[SourceKey(st)] = model.Stat(c.Attempts[st])
		}
	}
	if c.FTA > 0 {
		row[KeySourceSF] = model.Stat(contextFoulValue(c, mode))
	}
	switch mode {
	case PointsPer100:
		row[KeySourceTO] = model.Stat(0)
		row[KeyTargetAst] = model.Stat(c.Assists * assistPts)
	case ScoringPlaysPct:
		row[KeySourceTO] = model.Stat(0)
		row[KeyTargetAst] = model.Stat(c.Assists)
	default:
		row[KeySourceTO] = model.Stat(c.TO)
		row[KeyTargetAst] = model.Stat(c.Assists)
	}
	return row
}

// shift moves a statistic's value, and its pre-adjustment value, by delta.
func shift(s model.Statistic, delta float64) model.Statistic {
	s.Value += delta
	if s.OldValue != nil {
		old := *s.OldValue + delta
		s.OldValue = &old
	}
	return s
}

func scaleStatSet(in model.StatSet, scale float64) model.StatSet {
	out := make(model.StatSet, len(in))
	for k, v := range in {
		v.Value *= scale
		if v.OldValue != nil {
			old := *v.OldValue * scale
			v.OldValue = &old
		}
		out[k] = v
	}
	return out
}

func sumCounts(m map[string]float64) float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}

// orOne guards a denominator.
func orOne(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
