package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/aggregator"
	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/rating"
	"github.com/pable/go-cbb-metrics/internal/report"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var (
	whatifSide  string
	whatifList  bool
	whatifDiag  bool
	whatifDelta struct {
		threeP, mid, rim, ft, to float64
	}
)

var whatifCmd = &cobra.Command{
	Use:   "whatif <hash-prefix> [<code>]",
	Short: "Recompute a player's rating with shooting/turnover rate overrides",
	Long: `Apply rate deltas, in percentage points, to one player's offensive or
defensive rates and recompute the rating from the adjusted counts. Every run is
stored with an id; use --list to see earlier runs for a sample.

Example:
  cbbmetrics whatif 3fa9 AaWa --3p 5 --to -2
  cbbmetrics whatif 3fa9 BrSm --side def --rim -4
  cbbmetrics whatif 3fa9 --list`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWhatIf,
}

func init() {
	f := whatifCmd.Flags()
	f.Float64Var(&whatifDelta.threeP, "3p", 0, "3P% delta in percentage points")
	f.Float64Var(&whatifDelta.mid, "mid", 0, "mid-range FG% delta in percentage points")
	f.Float64Var(&whatifDelta.rim, "rim", 0, "rim FG% delta in percentage points")
	f.Float64Var(&whatifDelta.ft, "ft", 0, "FT% delta in percentage points")
	f.Float64Var(&whatifDelta.to, "to", 0, "TO% delta in percentage points")
	f.StringVar(&whatifSide, "side", rating.SideOffense, "rating side to recompute: off or def")
	f.BoolVar(&whatifList, "list", false, "list stored runs instead of computing a new one")
	f.BoolVar(&whatifDiag, "diag", false, "print raw and overridden diagnostics")
}

func deltasFromFlags() rating.Deltas {
	return rating.Deltas{
		ThreeP: whatifDelta.threeP / 100,
		Mid:    whatifDelta.mid / 100,
		Rim:    whatifDelta.rim / 100,
		FT:     whatifDelta.ft / 100,
		TO:     whatifDelta.to / 100,
	}
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetSampleByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query sample: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No sample found with hash prefix %q\n", args[0])
		return nil
	}
	code := ""
	if len(args) == 2 {
		code = args[1]
	}

	if whatifList {
		runs, err := db.ListWhatIfs(summary.Hash, code)
		if err != nil {
			return fmt.Errorf("list what-if runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stdout, "No what-if runs stored for this sample.")
			return nil
		}
		report.PrintSampleSummary(os.Stdout, *summary)
		report.PrintWhatIfTable(os.Stdout, runs)
		return nil
	}
	if code == "" {
		return errors.New("whatif: player code required unless --list is set")
	}
	d := deltasFromFlags()
	if d.IsZero() {
		return errors.New("whatif: set at least one of --3p, --mid, --rim, --ft, --to")
	}

	return evaluateWhatIf(db, *summary, code, whatifSide, d, whatifDiag)
}

// evaluateWhatIf runs, stores and prints one what-if evaluation.
func evaluateWhatIf(db *storage.DB, summary model.SampleSummary, code, side string, d rating.Deltas, diag bool) error {
	sample, err := db.LoadSample(summary.Hash)
	if err != nil {
		return fmt.Errorf("load sample: %w", err)
	}
	res, err := aggregator.WhatIf(sample, code, side, d, cfg.AvgEfficiency)
	if err != nil {
		return err
	}
	id, err := db.InsertWhatIf(res.Run)
	if err != nil {
		return fmt.Errorf("store what-if run: %w", err)
	}
	res.Run.ID = id
	log.Debug().Str("run", id).Str("player", code).Str("side", side).Msg("what-if stored")

	report.PrintSampleSummary(os.Stdout, summary)
	report.PrintWhatIfTable(os.Stdout, []model.WhatIfRun{res.Run})
	if diag {
		printWhatIfDiagnostics(res)
	}
	return nil
}

func printWhatIfDiagnostics(res aggregator.WhatIfResult) {
	if res.ORtg != nil {
		report.PrintORtgDiagnostics(os.Stdout, "ORtg (raw)", res.ORtg.RawDiagnostics)
		report.PrintORtgDiagnostics(os.Stdout, "ORtg (what-if)", res.ORtg.Diagnostics)
	}
	if res.DRtg != nil {
		report.PrintDRtgDiagnostics(os.Stdout, "DRtg (raw)", res.DRtg.RawDiagnostics)
		report.PrintDRtgDiagnostics(os.Stdout, "DRtg (what-if)", res.DRtg.Diagnostics)
	}
}
