package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/report"
)

var (
	playtypesLookup    bool
	playtypesPositions bool
)

var playtypesCmd = &cobra.Command{
	Use:   "playtypes",
	Short: "Print the play-type taxonomy and lookup table",
	Long: `Print the individual play-type taxonomy in its frozen index order (the
order compressed play-style vectors refer to) with the canonical category each
entry collapses into. With --lookup, also print the assist-network cell to
play-type distribution table. With --positions, print the position-family
weights each position label maps to.`,
	Args: cobra.NoArgs,
	RunE: runPlaytypes,
}

func init() {
	playtypesCmd.Flags().BoolVar(&playtypesLookup, "lookup", false, "also print the cell-key lookup table")
	playtypesCmd.Flags().BoolVar(&playtypesPositions, "positions", false, "also print position-family weights")
}

func runPlaytypes(_ *cobra.Command, _ []string) error {
	report.PrintPlayTypeTaxonomy(os.Stdout)
	if playtypesLookup {
		fmt.Fprintln(os.Stdout)
		report.PrintPlayTypeLookup(os.Stdout)
	}
	if playtypesPositions {
		fmt.Fprintln(os.Stdout)
		report.PrintPositionFamilies(os.Stdout)
	}
	return nil
}
