package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes one sample, or the whole metrics database file.
var dropCmd = &cobra.Command{
	Use:   "drop [<hash-prefix>]",
	Short: "Delete a stored sample or the whole metrics database",
	Long: `With a hash prefix, delete that sample and everything derived from it
(play styles, ratings, what-if runs). Without one, permanently delete the
SQLite metrics database. Re-parse your samples afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropSample(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}

func dropSample(prefix string) error {
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
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete sample %s (%s %s, %s).\n",
			summary.Hash[:12], summary.Team, summary.Season, summary.Context)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteSample(summary.Hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintln(os.Stdout, "Sample already gone, nothing to drop.")
			return nil
		}
		return fmt.Errorf("delete sample: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted sample: %s\n", summary.Hash[:12])
	return nil
}
