// Package aggregator runs the derivation engine over one sample: the team
// play-type breakdown, every player's individual breakdown and ratings.
package aggregator

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
	"github.com/pable/go-cbb-metrics/internal/rating"
)

// Options controls a run.
type Options struct {
	// AvgEfficiency is used when the sample does not carry its own.
	AvgEfficiency     float64
	SeparateHalfCourt bool
	// Diagnostics keeps the rating intermediates on each PlayerResult.
	Diagnostics bool
}

// PlayerResult is everything derived for one player.
type PlayerResult struct {
	Code       string
	Style      playstyle.IndivPlayStyle
	Compressed playstyle.CompressedPlayStyle
	ORtg       rating.ORtgResult
	DRtg       rating.DRtgResult
	Rating     model.PlayerRating
}

// Result is the full derivation output for a sample. Players keep the
// sample's order.
type Result struct {
	Sample        *model.Sample
	AvgEfficiency float64
	Team          playstyle.PlayStyle
	Players       []PlayerResult
}

// CompressedStyles returns the compressed individual breakdowns keyed by code.
func (r *Result) CompressedStyles() map[string]playstyle.CompressedPlayStyle {
	out := make(map[string]playstyle.CompressedPlayStyle, len(r.Players))
	for _, p := range r.Players {
		out[p.Code] = p.Compressed
	}
	return out
}

// Ratings returns the persisted rating rows.
func (r *Result) Ratings() []model.PlayerRating {
	out := make([]model.PlayerRating, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.Rating)
	}
	return out
}

// Player returns the result for code.
func (r *Result) Player(code string) (PlayerResult, bool) {
	for _, p := range r.Players {
		if p.Code == code {
			return p, true
		}
	}
	return PlayerResult{}, false
}

// EffectiveAvgEfficiency picks the sample's average efficiency when set.
func EffectiveAvgEfficiency(s *model.Sample, fallback float64) float64 {
	if s.AvgEfficiency > 0 {
		return s.AvgEfficiency
	}
	return fallback
}

// Aggregate derives every output for the sample. Players are processed
// concurrently; the team breakdown needs all of them and runs alongside.
func Aggregate(ctx context.Context, s *model.Sample, opts Options) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("aggregate: nil sample")
	}
	avg := EffectiveAvgEfficiency(s, opts.AvgEfficiency)
	roster := model.NewRoster(s.Players)
	psOpts := playstyle.Options{AvgEfficiency: avg, SeparateHalfCourt: opts.SeparateHalfCourt}

	res := &Result{
		Sample:        s,
		AvgEfficiency: avg,
		Players:       make([]PlayerResult, len(s.Players)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	g.Go(func() error {
		res.Team = playstyle.BuildTopLevelPlayStyles(s.Players, roster, s.TeamStats, psOpts)
		return nil
	})
	for i, p := range s.Players {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res.Players[i] = analyzePlayer(s, p, roster, psOpts, opts.Diagnostics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", s.Label(), err)
	}
	return res, nil
}

func analyzePlayer(s *model.Sample, p model.Player, roster model.Roster, opts playstyle.Options, diagnostics bool) PlayerResult {
	style := playstyle.BuildTopLevelIndivPlayStyles(p, roster, s.TeamStats, opts)
	stats := s.PlayerContext(p)

	// Diagnostics are always computed here since usage and possessions are read from them.
	ortg := rating.BuildORtg(stats, roster, opts.AvgEfficiency, true, true)
	drtg := rating.BuildDRtg(stats, opts.AvgEfficiency, diagnostics, true)

	row := model.PlayerRating{
		SampleHash: s.Hash,
		Code:       p.Code,
		ORtg:       value(ortg.Rating),
		AdjORtg:    value(ortg.AdjustedRating),
		DRtg:       value(drtg.Rating),
		AdjDRtg:    value(drtg.AdjustedRating),
		Usage:      ortg.Diagnostics.Usage,
		OffPoss:    stats.Value("off_poss"),
	}
	if row.OffPoss == 0 {
		row.OffPoss = ortg.Diagnostics.TotPoss
	}
	if !diagnostics {
		ortg.Diagnostics, ortg.RawDiagnostics = nil, nil
	}
	return PlayerResult{
		Code:       p.Code,
		Style:      style,
		Compressed: playstyle.Compress(style),
		ORtg:       ortg,
		DRtg:       drtg,
		Rating:     row,
	}
}

func value(s *model.Statistic) *float64 {
	if s == nil {
		return nil
	}
	v := s.Value
	return &v
}
