package playstyle

import (
	"sort"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// UnknownTeammate stands in for assists whose counterpart was not recorded.
const UnknownTeammate = "??"

// Edge is one teammate link of a player's assist network.
type Edge struct {
	Teammate string
	ShotType model.ShotType
	Value    float64
}

// PlayerNetwork is a player's assist network. Source edges are teammates who
// assisted the player, scaled so that per shot type they sum to the player's
// assisted bucket. Target edges are teammates the player assisted.
type PlayerNetwork struct {
	Code   string
	Source []Edge
	Target []Edge
}

// BuildPlayerNetwork enumerates a player's assist edges from the
// off_ast_<shot>_source/target fields. When the feed carries assists but no
// network breakdown, the whole volume is booked against UnknownTeammate.
func BuildPlayerNetwork(player model.Player, style PlayerStyle, teamStats model.StatSet) PlayerNetwork {
	net := PlayerNetwork{Code: player.Code}
	stats := player.Stats

	for _, st := range model.ShotTypes {
		counts := stats[model.AssistNetworkField(st, model.SideSource)].CountsByCode()
		total := sumCounts(counts)
		bucket := style.AssistedAll[st]
		switch {
		case total > 0:
			for _, code := range sortedCodes(counts) {
				net.Source = append(net.Source, Edge{code, st, counts[code] / total * bucket})
			}
		case bucket > 0:
			net.Source = append(net.Source, Edge{UnknownTeammate, st, bucket})
		}
	}

	var targetTotal float64
	for _, st := range model.ShotTypes {
		counts := stats[model.AssistNetworkField(st, model.SideTarget)].CountsByCode()
		for _, code := range sortedCodes(counts) {
			v := counts[code]
			if style.Mode == PointsPer100 {
				v *= st.Points()
			}
			targetTotal += v
			net.Target = append(net.Target, Edge{code, st, v})
		}
	}
	if targetTotal == 0 && style.AssistsGiven > 0 {
		mix := teamAssistMix(teamStats)
		for _, st := range model.ShotTypes {
			if mix[st] > 0 {
				net.Target = append(net.Target, Edge{UnknownTeammate, st, style.AssistsGiven * mix[st]})
			}
		}
	}
	return net
}

func sortedCodes(m map[string]float64) []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// teamAssistMix is the team's share of assisted makes by shot type.
func teamAssistMix(teamStats model.StatSet) [3]float64 {
	team := model.ReadBox(teamStats, model.TeamTotal)
	total := team.Ast[0] + team.Ast[1] + team.Ast[2]
	if total <= 0 {
		return [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	}
	return [3]float64{team.Ast[0] / total, team.Ast[1] / total, team.Ast[2] / total}
}

// AssistMatrix is a position-family collapse of assist networks and
// decomposition rows. Cells are indexed [scorer][passer]; Rows are indexed
// [row type][scorer family]. Every cell and row carries every key, zero
// filled when no weight landed on it.
type AssistMatrix struct {
	Mode  Mode
	Norm  float64
	Cells [model.NumFamilies][model.NumFamilies]model.StatSet
	Rows  [NumRowTypes][model.NumFamilies]model.StatSet
	// UnattributedTO is turnover mass no cell could absorb (team mode only).
	UnattributedTO float64
}

func newAssistMatrix(mode Mode, norm float64) AssistMatrix {
	m := AssistMatrix{Mode: mode, Norm: norm}
	for s := range m.Cells {
		for p := range m.Cells[s] {
			cell := model.StatSet{}
			for _, st := range model.ShotTypes {
				cell[SourceKey(st)] = model.Stat(0)
				cell[TargetKey(st)] = model.Stat(0)
				cell[EFGKey(st)] = model.Stat(0)
			}
			m.Cells[s][p] = cell
		}
	}
	for r := range m.Rows {
		for f := range m.Rows[r] {
			row := model.StatSet{}
			for _, st := range model.ShotTypes {
				row[SourceKey(st)] = model.Stat(0)
			}
			row[KeySourceSF] = model.Stat(0)
			row[KeySourceTO] = model.Stat(0)
			row[KeyTargetAst] = model.Stat(0)
			m.Rows[r][f] = row
		}
	}
	return m
}

// Clone returns a deep copy of the matrix.
func (m AssistMatrix) Clone() AssistMatrix {
	out := m
	for s := range m.Cells {
		for p := range m.Cells[s] {
			out.Cells[s][p] = m.Cells[s][p].Clone()
		}
	}
	for r := range m.Rows {
		for f := range m.Rows[r] {
			out.Rows[r][f] = m.Rows[r][f].Clone()
		}
	}
	return out
}

// efgAccum tracks the source-weighted scorer eFG per cell.
type efgAccum [model.NumFamilies][model.NumFamilies][3]struct{ num, den float64 }

func (a *efgAccum) add(s, p model.PositionFamily, st model.ShotType, weight, efg float64) {
	a[s][p][st].num += weight * efg
	a[s][p][st].den += weight
}

func (a *efgAccum) store(m *AssistMatrix) {
	for _, s := range model.Families {
		for _, p := range model.Families {
			for _, st := range model.ShotTypes {
				if e := a[s][p][st]; e.den > 0 {
					m.Cells[s][p][EFGKey(st)] = model.Stat(e.num / e.den)
				}
			}
		}
	}
}

// teamEntry bundles a player's decomposition with its family weights.
type teamEntry struct {
	player  model.Player
	weights model.FamilyWeights
	style   PlayerStyle
	network PlayerNetwork
}

func buildEntries(players []model.Player, roster model.Roster, teamStats model.StatSet, opts DecomposeOptions) []teamEntry {
	entries := make([]teamEntry, 0, len(players))
	for _, p := range players {
		style := Decompose(p, teamStats, opts)
		entries = append(entries, teamEntry{
			player:  p,
			weights: playerWeights(p.Code, p.Position, roster),
			style:   style,
			network: BuildPlayerNetwork(p, style, teamStats),
		})
	}
	return entries
}

// halfCourtRetain returns, per shot type, the fraction of the assisted
// volume left after removing scramble and transition assists.
func halfCourtRetain(all, nonHalfCourt [3]float64) [3]float64 {
	var out [3]float64
	for st := range out {
		if all[st] <= 0 {
			out[st] = 1
			continue
		}
		out[st] = (all[st] - min(nonHalfCourt[st], all[st])) / all[st]
	}
	return out
}

// BuildTeamMatrix collapses every player's decomposition and assist network
// into a team-wide position-family matrix normalised by team plays.
func BuildTeamMatrix(players []model.Player, roster model.Roster, teamStats model.StatSet, opts DecomposeOptions) AssistMatrix {
	entries := buildEntries(players, roster, teamStats, opts)
	norm := TeamPlays(teamStats)
	m := newAssistMatrix(opts.Mode, norm)

	styles := make(map[string]PlayerStyle, len(entries))
	var assistedAll, assistedNonHC [3]float64
	var teamAssists float64
	for _, e := range entries {
		styles[e.player.Code] = e.style
		for st := range assistedAll {
			assistedAll[st] += e.style.AssistedAll[st]
			assistedNonHC[st] += e.style.AssistedNonHalfCourt[st]
		}
		teamAssists += e.style.AssistsGiven
	}
	retain := [3]float64{1, 1, 1}
	if opts.SeparateHalfCourt {
		retain = halfCourtRetain(assistedAll, assistedNonHC)
	}
	teamAssists = orOne(teamAssists)

	var efg efgAccum
	for _, e := range entries {
		collapseRows(&m, e.style.Rates(norm), e.weights)
		scale := rateScale(opts.Mode, norm)

		for _, edge := range e.network.Source {
			tw := playerWeights(edge.Teammate, "", roster)
			v := edge.Value * retain[edge.ShotType] * scale
			for _, s := range model.Families {
				for _, p := range model.Families {
					w := v * e.weights[s] * tw[p]
					if w == 0 {
						continue
					}
					m.Cells[s][p].Add(SourceKey(edge.ShotType), w)
					efg.add(s, p, edge.ShotType, w, e.style.EFG[edge.ShotType])
				}
			}
		}
		for _, edge := range e.network.Target {
			tw := playerWeights(edge.Teammate, "", roster)
			uplift := 1.0
			if ts, ok := styles[edge.Teammate]; ok {
				uplift = ts.AssistedUplift[edge.ShotType]
			}
			v := edge.Value * uplift / teamAssists
			for _, s := range model.Families {
				for _, p := range model.Families {
					if w := v * tw[s] * e.weights[p]; w != 0 {
						m.Cells[s][p].Add(TargetKey(edge.ShotType), w)
					}
				}
			}
		}
	}
	efg.store(&m)
	return m
}

// BuildIndivMatrix collapses one player's decomposition and assist network.
// Source cells place the player as scorer, target cells as passer; the
// teammate's assisted-miss uplift is applied to target edges here.
func BuildIndivMatrix(player model.Player, roster model.Roster, teamStats model.StatSet, opts DecomposeOptions) AssistMatrix {
	style := Decompose(player, teamStats, opts)
	network := BuildPlayerNetwork(player, style, teamStats)
	weights := playerWeights(player.Code, player.Position, roster)
	norm := style.TotalPlaysMade
	m := newAssistMatrix(opts.Mode, norm)
	scale := rateScale(opts.Mode, norm)

	collapseRows(&m, style.Rates(norm), weights)

	retain := [3]float64{1, 1, 1}
	targetRetain := 1.0
	if opts.SeparateHalfCourt {
		retain = halfCourtRetain(style.AssistedAll, style.AssistedNonHalfCourt)
		if style.AssistsGiven > 0 {
			targetRetain = (style.AssistsGiven - min(style.AssistsGivenNonHalfCourt, style.AssistsGiven)) / style.AssistsGiven
		}
	}

	var efg efgAccum
	for _, edge := range network.Source {
		tw := playerWeights(edge.Teammate, "", roster)
		v := edge.Value * retain[edge.ShotType] * scale
		for _, s := range model.Families {
			for _, p := range model.Families {
				w := v * weights[s] * tw[p]
				if w == 0 {
					continue
				}
				m.Cells[s][p].Add(SourceKey(edge.ShotType), w)
				efg.add(s, p, edge.ShotType, w, style.EFG[edge.ShotType])
			}
		}
	}

	uplifts := make(map[string][3]float64)
	for _, edge := range network.Target {
		uplift, ok := uplifts[edge.Teammate]
		if !ok {
			uplift = [3]float64{1, 1, 1}
			if mate, found := roster[edge.Teammate]; found && mate.Code != player.Code {
				uplift = Decompose(mate, teamStats, opts).AssistedUplift
			}
			uplifts[edge.Teammate] = uplift
		}
		tw := playerWeights(edge.Teammate, "", roster)
		v := edge.Value * uplift[edge.ShotType] * targetRetain * scale
		for _, s := range model.Families {
			for _, p := range model.Families {
				if w := v * tw[s] * weights[p]; w != 0 {
					m.Cells[s][p].Add(TargetKey(edge.ShotType), w)
				}
			}
		}
	}
	efg.store(&m)
	return m
}

// collapseRows adds a player's rate rows into the matrix rows by family weight.
func collapseRows(m *AssistMatrix, rates [NumRowTypes]model.StatSet, weights model.FamilyWeights) {
	for r := range rates {
		for k, v := range rates[r] {
			for _, f := range model.Families {
				if w := v.Value * weights[f]; w != 0 {
					m.Rows[r][f].Add(k, w)
				}
			}
		}
	}
}

func rateScale(mode Mode, norm float64) float64 {
	scale := 1 / orOne(norm)
	if mode == PointsPer100 {
		scale *= 100
	}
	return scale
}
