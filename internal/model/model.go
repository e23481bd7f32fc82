package model

import (
	"fmt"
	"sort"
)

// Statistic is one named value in a stat set.
type Statistic struct {
	Value float64 `json:"value" yaml:"value"`
	// OldValue preserves the number a derivation stage replaced.
	OldValue *float64 `json:"old_value,omitempty" yaml:"old_value,omitempty"`
	// Override is a human-readable provenance string.
	Override  string `json:"override,omitempty" yaml:"override,omitempty"`
	ExtraInfo any    `json:"extraInfo,omitempty" yaml:"extraInfo,omitempty"`
}

// Stat returns a plain Statistic holding v.
func Stat(v float64) Statistic {
	return Statistic{Value: v}
}

// Overridden reports whether the statistic carries a pre-override value.
func (s Statistic) Overridden() bool {
	return s.OldValue != nil
}

// Original returns the pre-override value when present, else Value.
func (s Statistic) Original() float64 {
	if s.OldValue != nil {
		return *s.OldValue
	}
	return s.Value
}

// Replaced returns a copy of s holding v, with the prior value stamped into
// OldValue (the earliest prior value wins) and the given provenance.
func (s Statistic) Replaced(v float64, override string) Statistic {
	old := s.Original()
	out := Statistic{Value: v, OldValue: &old, Override: override, ExtraInfo: s.ExtraInfo}
	return out
}

// CountsByCode reads ExtraInfo as a map of player code to count. JSON and
// YAML decoding both produce map[string]any with numeric leaves.
func (s Statistic) CountsByCode() map[string]float64 {
	out := make(map[string]float64)
	switch m := s.ExtraInfo.(type) {
	case map[string]float64:
		for k, v := range m {
			out[k] = v
		}
	case map[string]int:
		for k, v := range m {
			out[k] = float64(v)
		}
	case map[string]any:
		for k, v := range m {
			switch n := v.(type) {
			case float64:
				out[k] = n
			case int:
				out[k] = float64(n)
			case int64:
				out[k] = float64(n)
			}
		}
	}
	return out
}

// StatSet is a flat mapping of field name to Statistic. Field names follow
// the off_/def_/total_/team_total_/oppo_total_ prefix convention.
type StatSet map[string]Statistic

// Value returns the named value, 0 when absent.
func (s StatSet) Value(key string) float64 {
	return s[key].Value
}

// Has reports whether key is present.
func (s StatSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Clone returns a shallow copy safe to modify without touching s.
func (s StatSet) Clone() StatSet {
	out := make(StatSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a new stat set with patch applied over s.
func (s StatSet) Merge(patch StatSet) StatSet {
	out := s.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Add increments key by v, creating it when absent.
func (s StatSet) Add(key string, v float64) {
	st := s[key]
	st.Value += v
	s[key] = st
}

// Keys returns the field names in sorted order.
func (s StatSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Player is one roster member together with its sampled stats.
type Player struct {
	Code     string  `json:"code" yaml:"code"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Position string  `json:"position,omitempty" yaml:"position,omitempty"`
	Stats    StatSet `json:"stats" yaml:"stats"`
}

// Roster indexes players by code.
type Roster map[string]Player

// NewRoster builds a Roster from a player list.
func NewRoster(players []Player) Roster {
	r := make(Roster, len(players))
	for _, p := range players {
		r[p.Code] = p
	}
	return r
}

// Sample is one query-context snapshot of a team and its players.
type Sample struct {
	Hash    string `json:"hash" yaml:"-"`
	Team    string `json:"team" yaml:"team"`
	Season  string `json:"season" yaml:"season"`
	Context string `json:"context" yaml:"context"` // baseline, on, off, other
	// AvgEfficiency is the division average points per 100 possessions; 0 means unset.
	AvgEfficiency float64  `json:"avg_efficiency,omitempty" yaml:"avg_efficiency,omitempty"`
	TeamStats     StatSet  `json:"team_stats" yaml:"team_stats"`
	Players       []Player `json:"players" yaml:"players"`
}

// Label is a short human-readable description of the sample.
func (s *Sample) Label() string {
	return fmt.Sprintf("%s %s (%s)", s.Team, s.Season, s.Context)
}

// PlayerContext returns the player's stat set merged over the sample's team
// and opponent totals, the shape the rating engine reads. Player fields win
// over team fields with the same name.
func (s *Sample) PlayerContext(p Player) StatSet {
	return s.TeamStats.Merge(p.Stats)
}

// Player returns the player with the given code.
func (s *Sample) Player(code string) (Player, bool) {
	for _, p := range s.Players {
		if p.Code == code {
			return p, true
		}
	}
	return Player{}, false
}

// SampleSummary is a lightweight record for list/show commands.
type SampleSummary struct {
	Hash          string
	Team          string
	Season        string
	Context       string
	PlayerCount   int
	AvgEfficiency float64
	IngestedAt    string
}

// PlayerRating is the persisted rating row for one player in one sample.
// Nil ratings mean the player had no possessions on that side.
type PlayerRating struct {
	SampleHash string
	Code       string
	ORtg       *float64
	AdjORtg    *float64
	DRtg       *float64
	AdjDRtg    *float64
	Usage      float64
	OffPoss    float64
}

// PlayerSampleRating is one player's rating in one sample, joined with the
// sample header.
type PlayerSampleRating struct {
	SampleHash string
	Team       string
	Season     string
	Context    string
	ORtg       *float64
	AdjORtg    *float64
	DRtg       *float64
	AdjDRtg    *float64
	Usage      float64
	OffPoss    float64
}

// WhatIfRun is one stored override evaluation for a player. Side is "off"
// or "def" and picks which rating the run recomputed. Deltas are fractions;
// ratings are nil when the player had no possessions on that side.
type WhatIfRun struct {
	ID           string
	SampleHash   string
	Code         string
	Side         string
	Delta3P      float64
	DeltaMid     float64
	DeltaRim     float64
	DeltaFT      float64
	DeltaTO      float64
	RawRating    *float64
	Rating       *float64
	RawAdjRating *float64
	AdjRating    *float64
	CreatedAt    string
}
