package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// InsertWhatIf stores a run, assigning a new id when run.ID is empty, and
// returns the id.
func (db *DB) InsertWhatIf(run model.WhatIfRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Side == "" {
		run.Side = "off"
	}
	if run.CreatedAt == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := db.conn.Exec(`
		INSERT INTO whatif_runs(id, sample_hash, code, side, delta_3p, delta_mid, delta_rim, delta_ft, delta_to,
		                        raw_rating, rating, raw_adj_rating, adj_rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SampleHash, run.Code, run.Side,
		run.Delta3P, run.DeltaMid, run.DeltaRim, run.DeltaFT, run.DeltaTO,
		run.RawRating, run.Rating, run.RawAdjRating, run.AdjRating, run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert whatif_runs: %w", err)
	}
	return run.ID, nil
}

// ListWhatIfs returns the stored runs for a sample, oldest first. An empty
// code returns runs for every player.
func (db *DB) ListWhatIfs(sampleHash, code string) ([]model.WhatIfRun, error) {
	query := `
		SELECT id, sample_hash, code, side, delta_3p, delta_mid, delta_rim, delta_ft, delta_to,
		       raw_rating, rating, raw_adj_rating, adj_rating, created_at
		FROM whatif_runs WHERE sample_hash = ?`
	args := []interface{}{sampleHash}
	if code != "" {
		query += " AND code = ?"
		args = append(args, code)
	}
	query += " ORDER BY created_at, id"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WhatIfRun
	for rows.Next() {
		var r model.WhatIfRun
		if err := rows.Scan(&r.ID, &r.SampleHash, &r.Code, &r.Side,
			&r.Delta3P, &r.DeltaMid, &r.DeltaRim, &r.DeltaFT, &r.DeltaTO,
			&r.RawRating, &r.Rating, &r.RawAdjRating, &r.AdjRating, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
