package rating

import (
	"fmt"
	"math"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// maxTOPct caps an overridden turnover rate; the solve for TO count divides
// by 1 - TO%. A rate already above the cap is never pulled down to it.
const maxTOPct = 0.9

// ftaTOWeight is the FTA weight in the TO% denominator.
const ftaTOWeight = 0.475

// Deltas are rate changes as fractions (0.05 is +5 percentage points).
type Deltas struct {
	ThreeP, Mid, Rim float64
	FT, TO           float64
}

// IsZero reports whether no delta is set.
func (d Deltas) IsZero() bool {
	return d == Deltas{}
}

// Shot returns the delta for one shot type.
func (d Deltas) Shot(st model.ShotType) float64 {
	switch st {
	case model.Shot3P:
		return d.ThreeP
	case model.ShotMid:
		return d.Mid
	default:
		return d.Rim
	}
}

func (d *Deltas) setShot(st model.ShotType, v float64) {
	switch st {
	case model.Shot3P:
		d.ThreeP = v
	case model.ShotMid:
		d.Mid = v
	default:
		d.Rim = v
	}
}

// Rate field sides.
const (
	SideOffense = "off"
	SideDefense = "def"
)

// rateField returns e.g. "off_2prim" or "def_to".
func rateField(side, suffix string) string { return side + "_" + suffix }

func readDeltas(stats model.StatSet, side string) Deltas {
	var d Deltas
	delta := func(key string) float64 {
		s, ok := stats[key]
		if !ok || !s.Overridden() {
			return 0
		}
		return s.Value - *s.OldValue
	}
	for _, st := range model.ShotTypes {
		d.setShot(st, delta(rateField(side, st.Field())))
	}
	d.FT = delta(rateField(side, "ft"))
	d.TO = delta(rateField(side, "to"))
	return d
}

// OffensiveDeltas reads overrides on off_3p, off_2pmid, off_2prim, off_ft and off_to.
func OffensiveDeltas(stats model.StatSet) Deltas { return readDeltas(stats, SideOffense) }

// DefensiveDeltas reads overrides on the def_* rate fields, which describe
// opponent shooting and turnovers.
func DefensiveDeltas(stats model.StatSet) Deltas { return readDeltas(stats, SideDefense) }

// ApplyRateOverrides returns stats with the given deltas written onto the
// side's rate fields as overrides, so BuildORtg/BuildDRtg with applyOverrides
// pick them up. Missing rate fields are first derived from the totals.
func ApplyRateOverrides(stats model.StatSet, d Deltas, side string) model.StatSet {
	name := model.PlayerTotal
	if side == SideDefense {
		name = model.OppoTotal
	}
	b := model.ReadBox(stats, name)
	patch := model.StatSet{}
	set := func(key string, current, delta float64) {
		if delta == 0 {
			return
		}
		s, ok := stats[key]
		if !ok {
			s = model.Stat(current)
		}
		patch[key] = s.Replaced(s.Value+delta, fmt.Sprintf("What-if %+.1f pp", 100*delta))
	}
	for _, st := range model.ShotTypes {
		set(rateField(side, st.Field()), b.Made[st]/orOne(b.Attempts[st]), d.Shot(st))
	}
	set(rateField(side, "ft"), b.FTM/orOne(b.FTA), d.FT)
	set(rateField(side, "to"), b.TO/orOne(b.FGA()+ftaTOWeight*b.FTA+b.TO), d.TO)
	return stats.Merge(patch)
}

// AdjustOffense converts offensive rate deltas into count deltas and returns
// a new stat set with player and team totals updated. Shooting deltas move
// makes at fixed attempts, with assisted makes scaled in proportion; the TO
// delta is solved from TO% = TO / (FGA + 0.475 FTA + TO).
func AdjustOffense(stats model.StatSet, d Deltas) model.StatSet {
	return adjustTotals(stats, d, model.PlayerTotal, model.TeamTotal)
}

// AdjustDefense applies defensive deltas to the opponent's offensive totals.
func AdjustDefense(stats model.StatSet, d Deltas) model.StatSet {
	return adjustTotals(stats, d, model.OppoTotal, nil)
}

func adjustTotals(stats model.StatSet, d Deltas, name, team func(string) string) model.StatSet {
	b := model.ReadBox(stats, name)
	patch := model.StatSet{}
	bump := func(key string, delta float64) {
		if delta == 0 {
			return
		}
		s := stats[key]
		if p, ok := patch[key]; ok {
			s = p
		}
		patch[key] = s.Replaced(s.Value+delta, "Adjusted by rate override")
	}
	bumpBoth := func(suffix string, delta float64) {
		bump(name(suffix), delta)
		if team != nil && stats.Has(team(suffix)) {
			bump(team(suffix), delta)
		}
	}

	var pts, fgm float64
	for _, st := range model.ShotTypes {
		att := b.Attempts[st]
		if att <= 0 || d.Shot(st) == 0 {
			continue
		}
		made := b.Made[st]
		newMade := clamp(made+d.Shot(st)*att, 0, att)
		dm := newMade - made
		bumpBoth(model.ShotField(st, model.KindMade), dm)
		if made > 0 {
			bumpBoth(model.ShotField(st, model.KindAst), b.Ast[st]*newMade/made-b.Ast[st])
		}
		pts += dm * st.Points()
		fgm += dm
	}
	if b.FTA > 0 && d.FT != 0 {
		dftm := clamp(b.FTM+d.FT*b.FTA, 0, b.FTA) - b.FTM
		bumpBoth("ftm", dftm)
		pts += dftm
	}
	// With no shots the rate is 1 for any TO count, so there is nothing to solve.
	if x := b.FGA() + ftaTOWeight*b.FTA; d.TO != 0 && x > 0 {
		cur := b.TO / (x + b.TO)
		target := clamp(cur+d.TO, 0, math.Max(maxTOPct, cur))
		bumpBoth("to", target*x/(1-target)-b.TO)
	}
	if stats.Has(name("fgm")) {
		bump(name("fgm"), fgm)
	}
	if stats.Has(name("pts")) {
		bump(name("pts"), pts)
	}
	if team != nil && stats.Has(team("pts")) {
		bump(team("pts"), pts)
	}
	return stats.Merge(patch)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
