package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-cbb-metrics/internal/rating"
	"github.com/pable/go-cbb-metrics/internal/report"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("cbbmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("cbbmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		var err error
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			err = shellList(db)
		case "show":
			err = shellShow(ctx, db, args)
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <code> [<code>...]")
				continue
			}
			err = printPlayers(db, args, "")
		case "whatif":
			err = shellWhatIf(db, args)
		case "playtypes":
			report.PrintPlayTypeTaxonomy(os.Stdout)
		case "lookup":
			report.PrintPlayTypeLookup(os.Stdout)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored samples"},
		{"show <hash-prefix>", "show a sample's play types and ratings"},
		{"show <hash-prefix> --player <code> [--diag]", "same, with one player's breakdown"},
		{"player <code> [...]", "cross-sample ratings for one or more players"},
		{"whatif <hash-prefix> <code> --3p <pp> ...", "rate overrides (--mid --rim --ft --to --side)"},
		{"playtypes", "print the play-type taxonomy"},
		{"lookup", "print the cell-key lookup table"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-46s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) error {
	samples, err := db.ListSamples()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		cMuted.Println("No samples stored yet.")
		return nil
	}
	report.PrintSampleList(os.Stdout, samples)
	return nil
}

func shellShow(ctx context.Context, db *storage.DB, args []string) error {
	fs := pflag.NewFlagSet("show", pflag.ContinueOnError)
	player := fs.String("player", "", "player code")
	diag := fs.Bool("diag", false, "print diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: show <hash-prefix> [--player <code>] [--diag]")
	}
	summary, err := db.GetSampleByPrefix(fs.Arg(0))
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no sample found with prefix %q", fs.Arg(0))
	}
	if err := showByHash(db, summary.Hash, *player); err != nil {
		return err
	}
	if *diag && *player != "" {
		return printDiagnostics(ctx, db, summary.Hash, *player)
	}
	return nil
}

func shellWhatIf(db *storage.DB, args []string) error {
	fs := pflag.NewFlagSet("whatif", pflag.ContinueOnError)
	var pp [5]float64
	fs.Float64Var(&pp[0], "3p", 0, "")
	fs.Float64Var(&pp[1], "mid", 0, "")
	fs.Float64Var(&pp[2], "rim", 0, "")
	fs.Float64Var(&pp[3], "ft", 0, "")
	fs.Float64Var(&pp[4], "to", 0, "")
	side := fs.String("side", rating.SideOffense, "")
	diag := fs.Bool("diag", false, "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: whatif <hash-prefix> <code> [--3p <pp>] [--mid <pp>] [--rim <pp>] [--ft <pp>] [--to <pp>] [--side off|def]")
	}
	d := rating.Deltas{ThreeP: pp[0] / 100, Mid: pp[1] / 100, Rim: pp[2] / 100, FT: pp[3] / 100, TO: pp[4] / 100}
	if d.IsZero() {
		return fmt.Errorf("set at least one rate delta")
	}
	summary, err := db.GetSampleByPrefix(fs.Arg(0))
	if err != nil {
		return err
	}
	if summary == nil {
		return fmt.Errorf("no sample found with prefix %q", fs.Arg(0))
	}
	return evaluateWhatIf(db, *summary, fs.Arg(1), *side, d, *diag)
}
