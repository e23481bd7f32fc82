package rating

import (
	"math"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// playerCourtShare is the possession analog of MIN/Team_MIN: one of five on
// the floor.
const playerCourtShare = 0.2

// DRtgDiagnostics keeps every intermediate term of the defensive rating.
type DRtgDiagnostics struct {
	STL, BLK, DRB, PF float64

	OppFGA, OppFGM, OppFTA, OppFTM, OppORB, OppTOV, OppPTS float64
	TeamSTL, TeamBLK, TeamDRB, TeamPF, TeamDefPoss         float64

	DORPct, DFGPct, FMwt  float64
	Stops1, Stops2, Stops float64
	StopPct               float64

	TeamDRtg, DPtsPerScPoss, PlayerDRtg, DRtg float64

	AvgEfficiency, AdjOppOff, SOSFactor, AdjDRtg float64
}

// DRtgResult mirrors ORtgResult for defense.
type DRtgResult struct {
	Rating, AdjustedRating       *model.Statistic
	RawRating, RawAdjustedRating *model.Statistic
	Diagnostics                  *DRtgDiagnostics
	RawDiagnostics               *DRtgDiagnostics
}

// BuildDRtg computes the player's defensive rating from total_def_*,
// team_total_def_* and the opponent's offensive totals. With applyOverrides,
// defensive rate overrides are turned into opponent count deltas first.
func BuildDRtg(stats model.StatSet, avgEfficiency float64, calcDiagnostics, applyOverrides bool) DRtgResult {
	var res DRtgResult
	adjusted := stats
	overridden := false
	if applyOverrides {
		if d := DefensiveDeltas(stats); !d.IsZero() {
			adjusted = AdjustDefense(stats, d)
			overridden = true
		}
	}

	diag := computeDRtg(adjusted, avgEfficiency)
	if calcDiagnostics {
		res.Diagnostics = &diag
	}
	if diag.TeamDefPoss <= 0 {
		return res
	}
	if !overridden {
		res.Rating = statPtr(model.Stat(diag.DRtg))
		res.AdjustedRating = statPtr(model.Stat(diag.AdjDRtg))
		return res
	}

	raw := computeDRtg(stats, avgEfficiency)
	if calcDiagnostics {
		res.RawDiagnostics = &raw
	}
	res.RawRating = statPtr(model.Stat(raw.DRtg))
	res.RawAdjustedRating = statPtr(model.Stat(raw.AdjDRtg))
	res.Rating = statPtr(model.Stat(raw.DRtg).Replaced(diag.DRtg, overrideNote))
	res.AdjustedRating = statPtr(model.Stat(raw.AdjDRtg).Replaced(diag.AdjDRtg, overrideNote))
	return res
}

func computeDRtg(stats model.StatSet, avgEfficiency float64) DRtgDiagnostics {
	var d DRtgDiagnostics
	d.STL = stats.Value(model.PlayerDefTotal("stl"))
	d.BLK = stats.Value(model.PlayerDefTotal("blk"))
	d.DRB = stats.Value(model.PlayerDefTotal("drb"))
	d.PF = stats.Value(model.PlayerDefTotal("foul"))

	d.OppFGM, d.OppFGA = opponentFG(stats)
	d.OppFTA = stats.Value(model.OppoTotal("fta"))
	d.OppFTM = stats.Value(model.OppoTotal("ftm"))
	d.OppORB = stats.Value(model.OppoTotal("orb"))
	d.OppTOV = stats.Value(model.OppoTotal("to"))
	d.OppPTS = opponentPoints(stats)

	d.TeamSTL = stats.Value(model.TeamDefTotal("stl"))
	d.TeamBLK = stats.Value(model.TeamDefTotal("blk"))
	d.TeamDRB = stats.Value(model.TeamDefTotal("drb"))
	d.TeamPF = stats.Value(model.TeamDefTotal("foul"))
	d.TeamDefPoss = stats.Value(model.TeamDefTotal("poss"))

	d.AvgEfficiency = avgEfficiency
	d.AdjOppOff = stats.Value("def_adj_opp")
	if d.TeamDefPoss <= 0 {
		return d
	}

	d.DORPct = d.OppORB / orOne(d.OppORB+d.TeamDRB)
	d.DFGPct = d.OppFGM / orOne(d.OppFGA)
	fmNum := d.DFGPct * (1 - d.DORPct)
	d.FMwt = fmNum / orOne(fmNum+(1-d.DFGPct)*d.DORPct)

	d.Stops1 = d.STL + d.BLK*d.FMwt*(1-1.07*d.DORPct) + d.DRB*(1-d.FMwt)

	oppFTMiss := 0.0
	if d.OppFTA > 0 {
		oppFTMiss = math.Pow(1-d.OppFTM/d.OppFTA, 2)
	}
	teamStops := (d.OppFGA-d.OppFGM-d.TeamBLK)*d.FMwt*(1-1.07*d.DORPct) + (d.OppTOV - d.TeamSTL)
	d.Stops2 = teamStops*playerCourtShare + d.PF/orOne(d.TeamPF)*ftPossWeight*d.OppFTA*oppFTMiss
	d.Stops = d.Stops1 + d.Stops2
	d.StopPct = d.Stops / (d.TeamDefPoss * playerCourtShare)

	d.TeamDRtg = 100 * d.OppPTS / d.TeamDefPoss
	d.DPtsPerScPoss = d.OppPTS / orOne(d.OppFGM+(1-oppFTMiss)*d.OppFTA*ftPossWeight)
	d.PlayerDRtg = 100 * d.DPtsPerScPoss * (1 - d.StopPct)
	d.DRtg = d.TeamDRtg + drtgPlayerWeight*(d.PlayerDRtg-d.TeamDRtg)

	if d.AdjOppOff > 0 {
		d.SOSFactor = avgEfficiency / d.AdjOppOff
	}
	d.AdjDRtg = AdjustDRtg(d.DRtg, avgEfficiency, d.AdjOppOff)
	return d
}

// opponentFG derives opponent FGM/FGA from shot-type totals when present,
// otherwise from the aggregate fields.
func opponentFG(stats model.StatSet) (fgm, fga float64) {
	b := model.ReadBox(stats, model.OppoTotal)
	if b.FGA() > 0 {
		return b.FGM(), b.FGA()
	}
	return stats.Value(model.OppoTotal("fgm")), stats.Value(model.OppoTotal("fga"))
}

func opponentPoints(stats model.StatSet) float64 {
	if stats.Has(model.OppoTotal("pts")) {
		return stats.Value(model.OppoTotal("pts"))
	}
	return model.ReadBox(stats, model.OppoTotal).Points()
}
