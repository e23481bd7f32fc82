package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all samples stored in the database:
sample count, season range, distinct teams and players, stored what-if runs,
and the per-team context breakdown.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalSamples == 0 {
		fmt.Fprintln(os.Stdout, "No samples stored yet. Run 'cbbmetrics parse <sample.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Samples stored : %d\n", ov.TotalSamples)
	fmt.Fprintf(os.Stdout, "  Season range   : %s → %s\n", ov.EarliestSeason, ov.LatestSeason)
	fmt.Fprintf(os.Stdout, "  Unique teams   : %d\n", ov.UniqueTeams)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  What-if runs   : %d\n", ov.TotalWhatIfs)

	counts, err := db.GetTeamSampleCounts()
	if err != nil {
		return fmt.Errorf("get team counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	t := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	t.Header("TEAM", "CONTEXT", "SAMPLES")
	for _, c := range counts {
		t.Append(c.Team, c.Context, fmt.Sprintf("%d", c.Samples))
	}
	t.Render()
	return nil
}
