package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/aggregator"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
	"github.com/pable/go-cbb-metrics/internal/report"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var (
	showPlayer string
	showDiag   bool
	showMode   string
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored play-type and rating outputs by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player code and print their breakdown")
	showCmd.Flags().BoolVar(&showDiag, "diag", false, "recompute and print rating diagnostics for --player")
	showCmd.Flags().StringVar(&showMode, "mode", "", "also print --player's decomposition rows: playsPct, pointsPer100 or scoringPlaysPct")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]
	mode, err := playstyle.ParseMode(showMode)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetSampleByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query sample: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No sample found with hash prefix %q\n", prefix)
		return nil
	}
	if err := showByHash(db, summary.Hash, showPlayer); err != nil {
		return err
	}
	if showPlayer == "" {
		return nil
	}
	if showMode != "" {
		if err := printDecomposition(db, summary.Hash, showPlayer, mode); err != nil {
			return err
		}
	}
	if !showDiag {
		return nil
	}
	return printDiagnostics(cmd.Context(), db, summary.Hash, showPlayer)
}

// printDecomposition re-decomposes one stored player in the given mode.
func printDecomposition(db *storage.DB, hash, code string, mode playstyle.Mode) error {
	sample, err := db.LoadSample(hash)
	if err != nil {
		return fmt.Errorf("load sample: %w", err)
	}
	p, ok := sample.Player(code)
	if !ok {
		return fmt.Errorf("player %s: %w", code, aggregator.ErrUnknownPlayer)
	}
	style := playstyle.Decompose(p, sample.TeamStats, playstyle.DecomposeOptions{
		Mode:              mode,
		SeparateHalfCourt: cfg.SeparateHalfCourt,
	})
	report.PrintDecomposition(os.Stdout, style)
	return nil
}

// printDiagnostics re-runs the engine on the stored inputs with diagnostics
// enabled; intermediates are never persisted.
func printDiagnostics(ctx context.Context, db *storage.DB, hash, code string) error {
	sample, err := db.LoadSample(hash)
	if err != nil {
		return fmt.Errorf("load sample: %w", err)
	}
	res, err := aggregator.Aggregate(ctx, sample, aggregator.Options{
		AvgEfficiency:     cfg.AvgEfficiency,
		SeparateHalfCourt: cfg.SeparateHalfCourt,
		Diagnostics:       true,
	})
	if err != nil {
		return err
	}
	p, ok := res.Player(code)
	if !ok {
		return fmt.Errorf("player %s: %w", code, aggregator.ErrUnknownPlayer)
	}
	report.PrintORtgDiagnostics(os.Stdout, "ORtg diagnostics: "+code, p.ORtg.Diagnostics)
	report.PrintDRtgDiagnostics(os.Stdout, "DRtg diagnostics: "+code, p.DRtg.Diagnostics)
	return nil
}
