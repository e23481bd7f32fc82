package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/config"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	avgEff     float64
	splitHalf  bool

	// cfg is the resolved configuration, available once PersistentPreRunE ran.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cbbmetrics",
	Short: "College basketball play-type and rating tool",
	Long: `Ingest team/player stat-set samples, derive play-type breakdowns and
offensive/defensive ratings, and explore them from a local SQLite store.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath(), "path to YAML config file")
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.cbbmetrics/metrics.db)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.Float64Var(&avgEff, "avg-eff", 0, "division average efficiency, points per 100 possessions")
	pf.BoolVar(&splitHalf, "separate-half-court", true, "split put-backs and transition out of half-court play types")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(whatifCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(playtypesCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadSettings resolves config file, .env and environment, then applies any
// flag the user set explicitly.
func loadSettings(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath, ".env")
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("avg-eff") {
		c.AvgEfficiency = avgEff
	}
	if flags.Changed("separate-half-court") {
		c.SeparateHalfCourt = splitHalf
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return setupLogging(cfg.LogLevel)
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
	return nil
}

// openDB opens the configured store, creating its directory first.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
