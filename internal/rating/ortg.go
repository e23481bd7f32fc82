// Package rating computes possession-accounted offensive and defensive
// ratings per player, with strength-of-schedule and usage adjustment and an
// override path for what-if recomputation.
package rating

import (
	"math"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// ftPossWeight is the share of free-throw attempts that end a possession.
const ftPossWeight = 0.4

// ORtgDiagnostics keeps every intermediate term of the offensive rating.
type ORtgDiagnostics struct {
	EFG, AssistedPct, TeammateEFG [3]float64
	AssistsByShot                 [3]float64

	FGPart, ASTPart, FTPart, ORBPart float64
	ORB                              float64

	TeamScoringPoss, TeamORBPct, TeamPlayPct, TeamORBWeight float64
	ScPossScale                                             float64

	ScPoss, FGxPoss, FTxPoss, TOV, TotPoss float64

	PProdFGPart, PProdASTPart, PProdORBPart, PProd float64

	ORtg float64

	// Usage is in percent.
	Usage                    float64
	SDAtUsage, Regressed     float64
	UsageBonus, SOSFactor    float64
	AdjORtg                  float64
	AvgEfficiency, AdjOppDef float64
}

// ORtgResult holds the offensive rating pair. Rating is the rating on the
// (possibly overridden) inputs; Raw* are filled only when overrides were
// applied and differ from the recorded totals. A nil rating means no
// possessions were observed.
type ORtgResult struct {
	Rating, AdjustedRating       *model.Statistic
	RawRating, RawAdjustedRating *model.Statistic
	Diagnostics                  *ORtgDiagnostics
	RawDiagnostics               *ORtgDiagnostics
}

// BuildORtg computes the player's offensive rating from a stat set carrying
// the player's totals (total_off_*), the on-court team totals
// (team_total_off_*) and opponent rebounding (oppo_total_def_drb). roster
// supplies teammate shooting for the assist credit. With applyOverrides, rate
// overrides present in stats are converted into count deltas first and the
// raw rating is returned alongside.
func BuildORtg(stats model.StatSet, roster model.Roster, avgEfficiency float64, calcDiagnostics, applyOverrides bool) ORtgResult {
	var res ORtgResult
	adjusted := stats
	overridden := false
	if applyOverrides {
		if d := OffensiveDeltas(stats); !d.IsZero() {
			adjusted = AdjustOffense(stats, d)
			overridden = true
		}
	}

	diag := computeORtg(adjusted, roster, avgEfficiency)
	if calcDiagnostics {
		res.Diagnostics = &diag
	}
	if diag.TotPoss <= 0 {
		return res
	}
	if !overridden {
		res.Rating = statPtr(model.Stat(diag.ORtg))
		res.AdjustedRating = statPtr(model.Stat(diag.AdjORtg))
		return res
	}

	raw := computeORtg(stats, roster, avgEfficiency)
	if calcDiagnostics {
		res.RawDiagnostics = &raw
	}
	if raw.TotPoss > 0 {
		res.RawRating = statPtr(model.Stat(raw.ORtg))
		res.RawAdjustedRating = statPtr(model.Stat(raw.AdjORtg))
		res.Rating = statPtr(model.Stat(raw.ORtg).Replaced(diag.ORtg, overrideNote))
		res.AdjustedRating = statPtr(model.Stat(raw.AdjORtg).Replaced(diag.AdjORtg, overrideNote))
	} else {
		res.Rating = statPtr(model.Stat(diag.ORtg))
		res.AdjustedRating = statPtr(model.Stat(diag.AdjORtg))
	}
	return res
}

const overrideNote = "Recomputed from overridden shooting/TO rates"

func computeORtg(stats model.StatSet, roster model.Roster, avgEfficiency float64) ORtgDiagnostics {
	var d ORtgDiagnostics
	p := model.ReadBox(stats, model.PlayerTotal)
	team := model.ReadBox(stats, model.TeamTotal)
	oppDRB := stats.Value("oppo_total_def_drb")

	d.ORB = playerORB(stats, team.ORB, oppDRB)
	d.AssistsByShot = assistsByShot(stats, p.Assists, team)
	d.TeammateEFG = teammateEFG(stats, roster, p, team)

	for _, st := range model.ShotTypes {
		if p.Attempts[st] > 0 {
			d.EFG[st] = p.Made[st] * st.EFGWeight() / p.Attempts[st]
		}
		if p.Made[st] > 0 {
			d.AssistedPct[st] = math.Min(1, p.Ast[st]/p.Made[st])
		}
		credit := 1 - 0.5*d.EFG[st]*d.AssistedPct[st]
		d.FGPart += p.Made[st] * credit
		d.PProdFGPart += st.Points() * p.Made[st] * credit

		astCredit := 0.5 * d.TeammateEFG[st] * d.AssistsByShot[st]
		d.ASTPart += astCredit
		d.PProdASTPart += st.Points() * astCredit
	}

	ftMiss := 0.0
	if p.FTA > 0 {
		ftMiss = math.Pow(1-p.FTM/p.FTA, 2)
		d.FTPart = (1 - ftMiss) * ftPossWeight * p.FTA
	}

	teamFTMiss := 0.0
	if team.FTA > 0 {
		teamFTMiss = math.Pow(1-team.FTM/team.FTA, 2)
	}
	d.TeamScoringPoss = team.FGM() + (1-teamFTMiss)*team.FTA*ftPossWeight
	d.TeamORBPct = team.ORB / orOne(team.ORB+oppDRB)
	d.TeamPlayPct = d.TeamScoringPoss / orOne(team.FGA()+team.FTA*ftPossWeight+team.TO)
	orbNum := (1 - d.TeamORBPct) * d.TeamPlayPct
	d.TeamORBWeight = orbNum / orOne(orbNum+d.TeamORBPct*(1-d.TeamPlayPct))

	d.ORBPart = d.ORB * d.TeamORBWeight * d.TeamPlayPct
	d.ScPossScale = 1 - (team.ORB/orOne(d.TeamScoringPoss))*d.TeamORBWeight*d.TeamPlayPct

	d.ScPoss = (d.FGPart+d.ASTPart+d.FTPart)*d.ScPossScale + d.ORBPart
	d.FGxPoss = (p.FGA() - p.FGM()) * (1 - 1.07*d.TeamORBPct)
	d.FTxPoss = ftMiss * ftPossWeight * p.FTA
	d.TOV = p.TO
	d.TotPoss = d.ScPoss + d.FGxPoss + d.FTxPoss + d.TOV

	d.PProdORBPart = d.ORBPart * team.Points() / orOne(d.TeamScoringPoss)
	d.PProd = (d.PProdFGPart+d.PProdASTPart+p.FTM)*d.ScPossScale + d.PProdORBPart

	if d.TotPoss <= 0 {
		return d
	}
	d.ORtg = 100 * d.PProd / d.TotPoss
	d.Usage = usagePct(stats, d.TotPoss)
	adjustORtg(&d, stats.Value("off_adj_opp"), avgEfficiency)
	return d
}

// playerORB prefers the recorded count, otherwise rebuilds it from the ORB
// rate over the available offensive rebounds.
func playerORB(stats model.StatSet, teamORB, oppDRB float64) float64 {
	if stats.Has(model.PlayerTotal("orb")) {
		return stats.Value(model.PlayerTotal("orb"))
	}
	return stats.Value("off_orb") * (teamORB + oppDRB)
}

// assistsByShot splits the player's assists by the shot they set up:
// from the assist network when recorded, else the team's assisted mix.
func assistsByShot(stats model.StatSet, assists float64, team model.Box) [3]float64 {
	var out [3]float64
	var total float64
	for _, st := range model.ShotTypes {
		out[st] = stats.Value(model.AssistNetworkField(st, model.SideTarget))
		total += out[st]
	}
	if total > 0 || assists <= 0 {
		return out
	}
	teamAst := team.Ast[0] + team.Ast[1] + team.Ast[2]
	for _, st := range model.ShotTypes {
		if teamAst > 0 {
			out[st] = assists * team.Ast[st] / teamAst
		} else {
			out[st] = assists / 3
		}
	}
	return out
}

// teammateEFG is, per shot type, the eFG of the teammates the player
// assisted, weighted by how many assists each received. Teammates missing
// from the roster fall back to the rest-of-team eFG.
func teammateEFG(stats model.StatSet, roster model.Roster, p, team model.Box) [3]float64 {
	var out [3]float64
	for _, st := range model.ShotTypes {
		rest := restOfTeamEFG(st, p, team)
		counts := stats[model.AssistNetworkField(st, model.SideTarget)].CountsByCode()
		var num, den float64
		for code, n := range counts {
			efg := rest
			if mate, ok := roster[code]; ok {
				mb := model.ReadBox(mate.Stats, model.PlayerTotal)
				if mb.Attempts[st] > 0 {
					efg = mb.Made[st] * st.EFGWeight() / mb.Attempts[st]
				}
			}
			num += n * efg
			den += n
		}
		if den > 0 {
			out[st] = num / den
		} else {
			out[st] = rest
		}
	}
	return out
}

func restOfTeamEFG(st model.ShotType, p, team model.Box) float64 {
	att := team.Attempts[st] - p.Attempts[st]
	if att > 0 {
		return math.Max(0, team.Made[st]-p.Made[st]) * st.EFGWeight() / att
	}
	if team.Attempts[st] > 0 {
		return team.Made[st] * st.EFGWeight() / team.Attempts[st]
	}
	return 0
}

// referenceUsage is assumed when neither usage nor team possessions are known.
const referenceUsage = 20.0

// usagePct returns usage in percent: off_usage when present, otherwise the
// player's possessions over the on-court team possessions.
func usagePct(stats model.StatSet, totPoss float64) float64 {
	if u := stats.Value("off_usage"); u > 0 {
		return 100 * u
	}
	if teamPoss := stats.Value(model.TeamTotal("poss")); teamPoss > 0 {
		return 100 * totPoss / teamPoss
	}
	return referenceUsage
}

func statPtr(s model.Statistic) *model.Statistic { return &s }

// orOne guards a denominator.
func orOne(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}
