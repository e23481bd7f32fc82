package playstyle

import (
	"fmt"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// Empirical share of half-court turnovers by the kind of play they end.
const (
	toWeightUnassistedRim = 6.5
	toWeightInside        = 2.0
	toWeightBigPasserMult = 1.5
	toWeightOutside       = 1.0
)

// turnoverWeight returns the base weight for a matrix entry. passer is only
// consulted for assisted entries.
func turnoverWeight(st model.ShotType, assisted bool, passer model.PositionFamily) float64 {
	switch {
	case st == model.ShotRim && !assisted:
		return toWeightUnassistedRim
	case st.Inside():
		if assisted && passer == model.Big {
			return toWeightInside * toWeightBigPasserMult
		}
		return toWeightInside
	default:
		return toWeightOutside
	}
}

// TurnoverCell is one matrix entry eligible to absorb turnover mass.
type TurnoverCell struct {
	Stat   model.Statistic
	Weight float64
}

// ApportionTurnovers spreads toPct over cells in proportion to base weight
// times current value. The first pass sums the weights and the second adds
// each cell's share, stamping provenance. It returns the updated statistics
// (same order as cells) and the total mass applied, which equals toPct
// whenever any cell has positive weight and 0 otherwise.
func ApportionTurnovers(cells []TurnoverCell, toPct float64, label string) ([]model.Statistic, float64) {
	out := make([]model.Statistic, len(cells))
	for i, c := range cells {
		out[i] = c.Stat
	}
	if toPct <= 0 {
		return out, 0
	}

	var total float64
	for _, c := range cells {
		if w := c.Weight * c.Stat.Value; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return out, 0
	}

	var applied float64
	for i, c := range cells {
		w := c.Weight * c.Stat.Value
		if w <= 0 {
			continue
		}
		delta := w / total * toPct
		note := fmt.Sprintf("Adjusted by %.1f%% from [%s] TO%% of %.1f%%", 100*delta, label, 100*toPct)
		out[i] = c.Stat.Replaced(c.Stat.Value+delta, note)
		applied += delta
	}
	return out, applied
}

// cellRef addresses one key of one stat set inside a matrix.
type cellRef struct {
	set model.StatSet
	key string
}

func apportionRefs(refs []cellRef, weights []float64, toPct float64, label string) float64 {
	cells := make([]TurnoverCell, len(refs))
	for i, r := range refs {
		cells[i] = TurnoverCell{Stat: r.set[r.key], Weight: weights[i]}
	}
	updated, applied := ApportionTurnovers(cells, toPct, label)
	for i, r := range refs {
		r.set[r.key] = updated[i]
	}
	return applied
}

// scorerRefs gathers a family's unassisted and assisted source entries.
func scorerRefs(m AssistMatrix, f model.PositionFamily) ([]cellRef, []float64) {
	var refs []cellRef
	var weights []float64
	for _, st := range model.ShotTypes {
		refs = append(refs, cellRef{m.Rows[RowUnassisted][f], SourceKey(st)})
		weights = append(weights, turnoverWeight(st, false, 0))
		for _, p := range model.Families {
			refs = append(refs, cellRef{m.Cells[f][p], SourceKey(st)})
			weights = append(weights, turnoverWeight(st, true, p))
		}
	}
	return refs, weights
}

// ApplyTeamTurnovers returns a copy of a team matrix with each family's
// half-court TO% spread over its scorer-side entries. Mass no entry could
// absorb, together with team turnovers not attributed to any player, is
// recorded in UnattributedTO.
func ApplyTeamTurnovers(m AssistMatrix, teamStats model.StatSet, players []model.Player, opts DecomposeOptions) AssistMatrix {
	out := m.Clone()
	if out.Mode != PlaysPct {
		return out
	}
	var misc float64
	for _, f := range model.Families {
		toPct := out.Rows[RowUnassisted][f].Value(KeySourceTO)
		refs, weights := scorerRefs(out, f)
		applied := apportionRefs(refs, weights, toPct, f.String())
		misc += toPct - applied
	}

	team := model.ReadBox(teamStats, model.TeamTotal)
	teamTO := team.TO
	if opts.SeparateHalfCourt {
		scr := model.ReadContextBox(teamStats, model.TeamTotal, model.CtxScramble)
		trn := model.ReadContextBox(teamStats, model.TeamTotal, model.CtxTransition)
		teamTO -= min(teamTO, scr.TO+trn.TO)
	}
	var playerTO float64
	for _, p := range players {
		playerTO += Decompose(p, teamStats, opts).HalfCourtTO
	}
	if extra := teamTO - playerTO; extra > 0 {
		misc += extra / orOne(out.Norm)
	}
	out.UnattributedTO = misc
	return out
}

// ApplyIndivTurnovers returns a copy of an individual matrix with the
// player's half-court TO% spread over the player's scorer-side entries and
// the target side of the player's passes. Unabsorbed mass is dropped.
func ApplyIndivTurnovers(m AssistMatrix) AssistMatrix {
	out := m.Clone()
	if out.Mode != PlaysPct {
		return out
	}
	for _, f := range model.Families {
		toPct := out.Rows[RowUnassisted][f].Value(KeySourceTO)
		if toPct <= 0 {
			continue
		}
		refs, weights := scorerRefs(out, f)
		for _, st := range model.ShotTypes {
			for _, s := range model.Families {
				refs = append(refs, cellRef{out.Cells[s][f], TargetKey(st)})
				weights = append(weights, turnoverWeight(st, true, f))
			}
		}
		apportionRefs(refs, weights, toPct, f.String())
	}
	return out
}
