package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored samples",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	samples, err := db.ListSamples()
	if err != nil {
		return fmt.Errorf("list samples: %w", err)
	}
	if len(samples) == 0 {
		fmt.Fprintln(os.Stdout, "No samples stored yet. Run 'cbbmetrics parse <sample.json>' to add one.")
		return nil
	}
	report.PrintSampleList(os.Stdout, samples)
	return nil
}
