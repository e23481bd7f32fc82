package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
)

// SampleExists returns true if a sample with the given hash is already stored.
func (db *DB) SampleExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM samples WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertSample stores the sample header and every player's stat set in one
// transaction. Re-inserting a hash updates the header in place so rows that
// reference it survive.
func (db *DB) InsertSample(s *model.Sample) error {
	teamJSON, err := json.Marshal(s.TeamStats)
	if err != nil {
		return fmt.Errorf("encode team stats: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO samples(hash, team, season, context, avg_efficiency, player_count, team_stats, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			team = excluded.team, season = excluded.season, context = excluded.context,
			avg_efficiency = excluded.avg_efficiency, player_count = excluded.player_count,
			team_stats = excluded.team_stats`,
		s.Hash, s.Team, s.Season, s.Context, s.AvgEfficiency, len(s.Players),
		string(teamJSON), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_stat_sets(sample_hash, code, name, position, stats, ordinal)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range s.Players {
		statsJSON, err := json.Marshal(p.Stats)
		if err != nil {
			return fmt.Errorf("encode stats for %s: %w", p.Code, err)
		}
		if _, err := stmt.Exec(s.Hash, p.Code, p.Name, p.Position, string(statsJSON), i); err != nil {
			return fmt.Errorf("insert player_stat_sets for %s: %w", p.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Str("hash", s.Hash).Int("players", len(s.Players)).Msg("stored sample")
	return nil
}

const sampleColumns = `hash, team, season, context, player_count, avg_efficiency, ingested_at`

func scanSummary(row interface{ Scan(...any) error }) (model.SampleSummary, error) {
	var s model.SampleSummary
	err := row.Scan(&s.Hash, &s.Team, &s.Season, &s.Context, &s.PlayerCount, &s.AvgEfficiency, &s.IngestedAt)
	return s, err
}

// ListSamples returns all stored sample summaries, newest first.
func (db *DB) ListSamples() ([]model.SampleSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + sampleColumns + ` FROM samples ORDER BY ingested_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SampleSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSampleByPrefix finds the first sample whose hash starts with the given prefix.
func (db *DB) GetSampleByPrefix(prefix string) (*model.SampleSummary, error) {
	row := db.conn.QueryRow(`SELECT `+sampleColumns+` FROM samples WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%")
	s, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSample rebuilds the full sample, team stats and players included.
func (db *DB) LoadSample(hash string) (*model.Sample, error) {
	var s model.Sample
	var teamJSON string
	err := db.conn.QueryRow(`
		SELECT hash, team, season, context, avg_efficiency, team_stats
		FROM samples WHERE hash = ?`, hash).
		Scan(&s.Hash, &s.Team, &s.Season, &s.Context, &s.AvgEfficiency, &teamJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sample %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(teamJSON), &s.TeamStats); err != nil {
		return nil, fmt.Errorf("decode team stats: %w", err)
	}
	players, err := db.GetPlayers(hash)
	if err != nil {
		return nil, err
	}
	s.Players = players
	return &s, nil
}

// GetPlayers returns the sample's players in ingestion order.
func (db *DB) GetPlayers(sampleHash string) ([]model.Player, error) {
	rows, err := db.conn.Query(`
		SELECT code, name, position, stats
		FROM player_stat_sets WHERE sample_hash = ?
		ORDER BY ordinal, code`, sampleHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		var statsJSON string
		if err := rows.Scan(&p.Code, &p.Name, &p.Position, &statsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(statsJSON), &p.Stats); err != nil {
			return nil, fmt.Errorf("decode stats for %s: %w", p.Code, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertTeamPlayStyle replaces the stored team breakdown for a sample.
func (db *DB) InsertTeamPlayStyle(sampleHash string, style playstyle.PlayStyle) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_play_styles(sample_hash, play_type, poss_pct, pts)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range playstyle.TopLevelPlayTypes {
		s := style[t]
		if _, err := stmt.Exec(sampleHash, string(t), s.PossPct, s.Pts); err != nil {
			return fmt.Errorf("insert team_play_styles for %s: %w", t, err)
		}
	}
	return tx.Commit()
}

// GetTeamPlayStyle returns the stored team breakdown, every category present.
func (db *DB) GetTeamPlayStyle(sampleHash string) (playstyle.PlayStyle, error) {
	rows, err := db.conn.Query(`
		SELECT play_type, poss_pct, pts
		FROM team_play_styles WHERE sample_hash = ?`, sampleHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(playstyle.PlayStyle, len(playstyle.TopLevelPlayTypes))
	for _, t := range playstyle.TopLevelPlayTypes {
		out[t] = playstyle.PlayTypeStat{}
	}
	for rows.Next() {
		var name string
		var s playstyle.PlayTypeStat
		if err := rows.Scan(&name, &s.PossPct, &s.Pts); err != nil {
			return nil, err
		}
		out[playstyle.TopLevelPlayType(name)] = s
	}
	return out, rows.Err()
}

// InsertPlayerPlayStyles stores one compressed breakdown per player code.
func (db *DB) InsertPlayerPlayStyles(sampleHash string, styles map[string]playstyle.CompressedPlayStyle) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_play_styles(sample_hash, code, compressed)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for code, c := range styles {
		if c == nil {
			c = playstyle.CompressedPlayStyle{}
		}
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode play style for %s: %w", code, err)
		}
		if _, err := stmt.Exec(sampleHash, code, string(b)); err != nil {
			return fmt.Errorf("insert player_play_styles for %s: %w", code, err)
		}
	}
	return tx.Commit()
}

// GetPlayerPlayStyles returns the compressed breakdowns keyed by player code.
func (db *DB) GetPlayerPlayStyles(sampleHash string) (map[string]playstyle.CompressedPlayStyle, error) {
	rows, err := db.conn.Query(`
		SELECT code, compressed FROM player_play_styles WHERE sample_hash = ?`, sampleHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]playstyle.CompressedPlayStyle)
	for rows.Next() {
		var code, raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, err
		}
		var c playstyle.CompressedPlayStyle
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode play style for %s: %w", code, err)
		}
		out[code] = c
	}
	return out, rows.Err()
}

// InsertPlayerRatings bulk-inserts rating rows in a transaction.
func (db *DB) InsertPlayerRatings(ratings []model.PlayerRating) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_ratings(sample_hash, code, ortg, adj_ortg, drtg, adj_drtg, usage, off_poss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range ratings {
		_, err := stmt.Exec(r.SampleHash, r.Code, r.ORtg, r.AdjORtg, r.DRtg, r.AdjDRtg, r.Usage, r.OffPoss)
		if err != nil {
			return fmt.Errorf("insert player_ratings for %s: %w", r.Code, err)
		}
	}
	return tx.Commit()
}

// GetPlayerRatings returns the sample's ratings ordered by adjusted ORtg desc,
// players without an offensive rating last.
func (db *DB) GetPlayerRatings(sampleHash string) ([]model.PlayerRating, error) {
	rows, err := db.conn.Query(`
		SELECT sample_hash, code, ortg, adj_ortg, drtg, adj_drtg, usage, off_poss
		FROM player_ratings WHERE sample_hash = ?
		ORDER BY adj_ortg IS NULL, adj_ortg DESC, code`, sampleHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRatings(rows)
}

func scanRatings(rows *sql.Rows) ([]model.PlayerRating, error) {
	var out []model.PlayerRating
	for rows.Next() {
		var r model.PlayerRating
		if err := rows.Scan(&r.SampleHash, &r.Code, &r.ORtg, &r.AdjORtg, &r.DRtg, &r.AdjDRtg, &r.Usage, &r.OffPoss); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteSample removes a sample and everything derived from it.
func (db *DB) DeleteSample(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"whatif_runs", "player_ratings", "player_play_styles", "team_play_styles", "player_stat_sets"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE sample_hash = ?", hash); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM samples WHERE hash = ?", hash)
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sample %s: %w", hash, ErrNotFound)
	}
	return tx.Commit()
}
