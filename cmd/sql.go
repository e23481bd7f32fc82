package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  samples(hash, team, season, context, avg_efficiency, player_count, team_stats JSON, ingested_at)
  player_stat_sets(sample_hash, code, name, position, stats JSON, ordinal)
  team_play_styles(sample_hash, play_type, poss_pct, pts)
  player_play_styles(sample_hash, code, compressed JSON)
  player_ratings(sample_hash, code, ortg, adj_ortg, drtg, adj_drtg, usage, off_poss)
  whatif_runs(id, sample_hash, code, side, delta_3p, delta_mid, delta_rim, delta_ft,
    delta_to, raw_rating, rating, raw_adj_rating, adj_rating, created_at)

Ratings are NULL when the player had no possessions on that side. Stat-set
columns hold JSON; use json_extract, e.g.
  SELECT code, json_extract(stats, '$.total_off_3p_made.value') FROM player_stat_sets`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

