package aggregator

import (
	"errors"
	"fmt"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/rating"
)

// ErrUnknownPlayer is returned when a code is not on the sample's roster.
var ErrUnknownPlayer = errors.New("unknown player")

// WhatIfResult carries the run record plus the full rating result of the
// side that was recomputed.
type WhatIfResult struct {
	Run  model.WhatIfRun
	ORtg *rating.ORtgResult
	DRtg *rating.DRtgResult
}

// WhatIf recomputes one player's rating on side ("off" or "def") with the
// given rate deltas applied as overrides. Diagnostics are kept for both the
// overridden and the raw inputs.
func WhatIf(s *model.Sample, code, side string, d rating.Deltas, avgEfficiency float64) (WhatIfResult, error) {
	p, ok := s.Player(code)
	if !ok {
		return WhatIfResult{}, fmt.Errorf("what-if %s: %w", code, ErrUnknownPlayer)
	}
	if side != rating.SideOffense && side != rating.SideDefense {
		return WhatIfResult{}, fmt.Errorf("what-if side %q: want %q or %q", side, rating.SideOffense, rating.SideDefense)
	}
	avg := EffectiveAvgEfficiency(s, avgEfficiency)
	stats := rating.ApplyRateOverrides(s.PlayerContext(p), d, side)

	out := WhatIfResult{Run: model.WhatIfRun{
		SampleHash: s.Hash,
		Code:       code,
		Side:       side,
		Delta3P:    d.ThreeP,
		DeltaMid:   d.Mid,
		DeltaRim:   d.Rim,
		DeltaFT:    d.FT,
		DeltaTO:    d.TO,
	}}
	var rated, adjusted, rawRated, rawAdjusted *model.Statistic
	if side == rating.SideOffense {
		res := rating.BuildORtg(stats, model.NewRoster(s.Players), avg, true, true)
		out.ORtg = &res
		rated, adjusted, rawRated, rawAdjusted = res.Rating, res.AdjustedRating, res.RawRating, res.RawAdjustedRating
	} else {
		res := rating.BuildDRtg(stats, avg, true, true)
		out.DRtg = &res
		rated, adjusted, rawRated, rawAdjusted = res.Rating, res.AdjustedRating, res.RawRating, res.RawAdjustedRating
	}
	out.Run.Rating = value(rated)
	out.Run.AdjRating = value(adjusted)
	out.Run.RawRating = value(rawRated)
	out.Run.RawAdjRating = value(rawAdjusted)
	// With no effective override the raw and overridden ratings coincide.
	if out.Run.RawRating == nil && rated != nil {
		out.Run.RawRating = out.Run.Rating
		out.Run.RawAdjRating = out.Run.AdjRating
	}
	return out, nil
}
