package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// DBOverview holds aggregate counts for the summary command.
type DBOverview struct {
	TotalSamples   int
	UniqueTeams    int
	UniquePlayers  int
	TotalWhatIfs   int
	EarliestSeason string
	LatestSeason   string
}

// TeamSampleCount is the number of stored samples per team and context.
type TeamSampleCount struct {
	Team    string
	Context string
	Samples int
}

// GetPlayerRatingsAcrossSamples returns every stored rating for the given
// player codes, ordered by season then context.
func (db *DB) GetPlayerRatingsAcrossSamples(codes []string) (map[string][]model.PlayerSampleRating, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(codes))
	for _, c := range codes {
		args = append(args, c)
	}
	query := fmt.Sprintf(`
		SELECT r.code, r.sample_hash, s.team, s.season, s.context,
		       r.ortg, r.adj_ortg, r.drtg, r.adj_drtg, r.usage, r.off_poss
		FROM player_ratings r
		JOIN samples s ON s.hash = r.sample_hash
		WHERE r.code IN (%s)
		ORDER BY s.season, s.context, s.hash`, placeholders(len(codes)))

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.PlayerSampleRating)
	for rows.Next() {
		var code string
		var r model.PlayerSampleRating
		if err := rows.Scan(&code, &r.SampleHash, &r.Team, &r.Season, &r.Context,
			&r.ORtg, &r.AdjORtg, &r.DRtg, &r.AdjDRtg, &r.Usage, &r.OffPoss); err != nil {
			return nil, err
		}
		out[code] = append(out[code], r)
	}
	return out, rows.Err()
}

// GetDBOverview returns high-level counts across the whole store.
func (db *DB) GetDBOverview() (DBOverview, error) {
	var ov DBOverview
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COUNT(DISTINCT team), COALESCE(MIN(season), ''), COALESCE(MAX(season), '')
		FROM samples`).Scan(&ov.TotalSamples, &ov.UniqueTeams, &ov.EarliestSeason, &ov.LatestSeason)
	if err != nil {
		return ov, fmt.Errorf("count samples: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(DISTINCT code) FROM player_stat_sets`).Scan(&ov.UniquePlayers); err != nil {
		return ov, fmt.Errorf("count players: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM whatif_runs`).Scan(&ov.TotalWhatIfs); err != nil {
		return ov, fmt.Errorf("count what-if runs: %w", err)
	}
	return ov, nil
}

// GetTeamSampleCounts groups stored samples by team and context.
func (db *DB) GetTeamSampleCounts() ([]TeamSampleCount, error) {
	rows, err := db.conn.Query(`
		SELECT team, context, COUNT(1)
		FROM samples GROUP BY team, context
		ORDER BY COUNT(1) DESC, team, context`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamSampleCount
	for rows.Next() {
		var c TeamSampleCount
		if err := rows.Scan(&c.Team, &c.Context, &c.Samples); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows
// rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatCell(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
