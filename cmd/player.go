package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/report"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var playerContext string

// playerCmd is the cobra command for cross-sample analysis of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <code> [<code>...]",
	Short: "Cross-sample ratings for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerContext, "context", "", "only include samples with this query context")
}

// playerAggregate is a possession-weighted roll-up of one player's samples.
type playerAggregate struct {
	Samples          int
	OffPoss          float64
	ORtg, AdjORtg    float64
	DRtg, AdjDRtg    float64
	hasORtg, hasDRtg bool
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printPlayers(db, args, playerContext)
}

// printPlayers loads every stored rating row for each code and prints the
// per-sample table followed by the weighted roll-up.
func printPlayers(db *storage.DB, codes []string, ctx string) error {
	byCode, err := db.GetPlayerRatingsAcrossSamples(codes)
	if err != nil {
		return fmt.Errorf("query ratings: %w", err)
	}
	for _, code := range codes {
		rows := filterContext(byCode[code], ctx)
		if len(rows) == 0 {
			fmt.Fprintf(os.Stderr, "No data found for player %s\n", code)
			continue
		}
		report.PrintPlayerAcrossSamples(os.Stdout, code, rows)
		printAggregate(buildAggregate(rows))
	}
	return nil
}

func filterContext(rows []model.PlayerSampleRating, ctx string) []model.PlayerSampleRating {
	if ctx == "" {
		return rows
	}
	var out []model.PlayerSampleRating
	for _, r := range rows {
		if r.Context == ctx {
			out = append(out, r)
		}
	}
	return out
}

// buildAggregate weights offensive ratings by the sample's offensive
// possessions. Defensive ratings use equal weights since every on-court
// player defends the same possessions.
func buildAggregate(rows []model.PlayerSampleRating) playerAggregate {
	agg := playerAggregate{Samples: len(rows)}
	var offW float64
	var defN int
	for _, r := range rows {
		agg.OffPoss += r.OffPoss
		if r.ORtg != nil && r.OffPoss > 0 {
			agg.ORtg += *r.ORtg * r.OffPoss
			if r.AdjORtg != nil {
				agg.AdjORtg += *r.AdjORtg * r.OffPoss
			}
			offW += r.OffPoss
		}
		if r.DRtg != nil {
			agg.DRtg += *r.DRtg
			if r.AdjDRtg != nil {
				agg.AdjDRtg += *r.AdjDRtg
			}
			defN++
		}
	}
	if offW > 0 {
		agg.ORtg /= offW
		agg.AdjORtg /= offW
		agg.hasORtg = true
	}
	if defN > 0 {
		agg.DRtg /= float64(defN)
		agg.AdjDRtg /= float64(defN)
		agg.hasDRtg = true
	}
	return agg
}

func printAggregate(a playerAggregate) {
	fmt.Fprintf(os.Stdout, "\n  Samples       : %d\n", a.Samples)
	fmt.Fprintf(os.Stdout, "  Off. poss     : %.0f\n", a.OffPoss)
	if a.hasORtg {
		fmt.Fprintf(os.Stdout, "  ORtg (wtd)    : %.1f  adj %.1f\n", a.ORtg, a.AdjORtg)
	}
	if a.hasDRtg {
		fmt.Fprintf(os.Stdout, "  DRtg (mean)   : %.1f  adj %.1f\n", a.DRtg, a.AdjDRtg)
	}
}
