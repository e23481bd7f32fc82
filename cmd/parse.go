package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/aggregator"
	"github.com/pable/go-cbb-metrics/internal/parser"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
	"github.com/pable/go-cbb-metrics/internal/report"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var parsePlayer string

var parseCmd = &cobra.Command{
	Use:   "parse <sample.json|sample.yaml>",
	Short: "Ingest a stat-set sample and store its derived metrics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parsePlayer, "player", "", "focus player code")
}

func runParse(cmd *cobra.Command, args []string) error {
	samplePath := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", samplePath)
	sample, err := parser.ParseSample(samplePath)
	if err != nil {
		return fmt.Errorf("parse sample: %w", err)
	}

	exists, err := db.SampleExists(sample.Hash)
	if err != nil {
		return fmt.Errorf("check sample: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Sample %s already stored, showing cached results.\n", sample.Hash[:12])
		return showByHash(db, sample.Hash, parsePlayer)
	}

	res, err := aggregator.Aggregate(cmd.Context(), sample, aggregator.Options{
		AvgEfficiency:     cfg.AvgEfficiency,
		SeparateHalfCourt: cfg.SeparateHalfCourt,
	})
	if err != nil {
		return err
	}

	if err := db.InsertSample(sample); err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	if err := db.InsertTeamPlayStyle(sample.Hash, res.Team); err != nil {
		return fmt.Errorf("insert team play style: %w", err)
	}
	if err := db.InsertPlayerPlayStyles(sample.Hash, res.CompressedStyles()); err != nil {
		return fmt.Errorf("insert player play styles: %w", err)
	}
	if err := db.InsertPlayerRatings(res.Ratings()); err != nil {
		return fmt.Errorf("insert ratings: %w", err)
	}
	log.Info().Str("hash", sample.Hash[:12]).Str("sample", sample.Label()).
		Float64("avg_eff", res.AvgEfficiency).Msg("sample stored")

	return showByHash(db, sample.Hash, parsePlayer)
}

// showByHash prints the stored outputs of a sample: header, team breakdown,
// ratings and, when focus is set, that player's individual breakdown.
func showByHash(db *storage.DB, hash, focus string) error {
	summary, err := db.GetSampleByPrefix(hash)
	if err != nil {
		return fmt.Errorf("query sample: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("sample not found: %s", hash)
	}
	team, err := db.GetTeamPlayStyle(summary.Hash)
	if err != nil {
		return fmt.Errorf("get team play style: %w", err)
	}
	ratings, err := db.GetPlayerRatings(summary.Hash)
	if err != nil {
		return fmt.Errorf("get ratings: %w", err)
	}

	report.PrintSampleSummary(os.Stdout, *summary)
	report.PrintTeamPlayStyle(os.Stdout, team)
	fmt.Fprintln(os.Stdout)
	report.PrintRatingTable(os.Stdout, ratings, focus)

	if focus == "" {
		return nil
	}
	styles, err := db.GetPlayerPlayStyles(summary.Hash)
	if err != nil {
		return fmt.Errorf("get player play styles: %w", err)
	}
	c, ok := styles[focus]
	if !ok {
		fmt.Fprintf(os.Stderr, "No player %q in sample %s\n", focus, summary.Hash[:12])
		return nil
	}
	report.PrintIndivPlayStyle(os.Stdout, focus, playstyle.Decompress(c), true)
	return nil
}
