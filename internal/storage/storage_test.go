package storage

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fptr(v float64) *float64 { return &v }

func testSample(hash string) *model.Sample {
	return &model.Sample{
		Hash:          hash,
		Team:          "Maryland",
		Season:        "2024",
		Context:       "baseline",
		AvgEfficiency: 104,
		TeamStats:     model.StatSet{"team_total_off_poss": model.Stat(70)},
		Players: []model.Player{
			{Code: "AaWa", Position: "PG", Stats: model.StatSet{
				"total_off_3p_made":  model.Stat(4),
				"off_ast_rim_source": {Value: 3, ExtraInfo: map[string]any{"BrSm": 2.0, "CoCo": 1.0}},
			}},
			{Code: "BrSm", Position: "C", Stats: model.StatSet{}},
		},
	}
}

func TestSampleInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertSample(testSample("abc123")); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}

	exists, err := db.SampleExists("abc123")
	if err != nil {
		t.Fatalf("SampleExists: %v", err)
	}
	if !exists {
		t.Error("expected sample to exist after insert")
	}

	exists2, _ := db.SampleExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent sample to not exist")
	}

	// Re-inserting the same hash replaces rather than failing.
	if err := db.InsertSample(testSample("abc123")); err != nil {
		t.Fatalf("re-insert: %v", err)
	}
	list, _ := db.ListSamples()
	if len(list) != 1 {
		t.Errorf("expected 1 sample after re-insert, got %d", len(list))
	}
}

func TestGetPlayersKeepsIngestionOrder(t *testing.T) {
	db := openMemDB(t)
	s := testSample("ord001")
	s.Players = []model.Player{
		{Code: "ZeZe", Position: "C", Stats: model.StatSet{}},
		{Code: "AaWa", Position: "PG", Stats: model.StatSet{}},
		{Code: "MiMi", Position: "WF", Stats: model.StatSet{}},
	}
	if err := db.InsertSample(s); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}

	players, err := db.GetPlayers("ord001")
	if err != nil {
		t.Fatalf("GetPlayers: %v", err)
	}
	want := []string{"ZeZe", "AaWa", "MiMi"}
	if len(players) != len(want) {
		t.Fatalf("got %d players, want %d", len(players), len(want))
	}
	for i, code := range want {
		if players[i].Code != code {
			t.Errorf("players[%d] = %s, want %s", i, players[i].Code, code)
		}
	}
}

func TestLoadSampleRoundTrip(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertSample(testSample("abc123")); err != nil {
		t.Fatalf("InsertSample: %v", err)
	}

	s, err := db.LoadSample("abc123")
	if err != nil {
		t.Fatalf("LoadSample: %v", err)
	}
	if s.Team != "Maryland" || s.AvgEfficiency != 104 {
		t.Errorf("unexpected header: %+v", s)
	}
	if got := s.TeamStats.Value("team_total_off_poss"); got != 70 {
		t.Errorf("team_total_off_poss = %v, want 70", got)
	}
	if len(s.Players) != 2 || s.Players[0].Code != "AaWa" {
		t.Fatalf("unexpected players: %+v", s.Players)
	}
	net := s.Players[0].Stats["off_ast_rim_source"].CountsByCode()
	if net["BrSm"] != 2 || net["CoCo"] != 1 {
		t.Errorf("assist network lost in round trip: %v", net)
	}

	_, err = db.LoadSample("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSampleByPrefix(t *testing.T) {
	db := openMemDB(t)
	db.InsertSample(testSample("deadbeef1234"))

	s, err := db.GetSampleByPrefix("deadbeef")
	if err != nil {
		t.Fatalf("GetSampleByPrefix: %v", err)
	}
	if s == nil || s.Hash != "deadbeef1234" {
		t.Fatalf("expected deadbeef1234, got %+v", s)
	}
	if s.PlayerCount != 2 {
		t.Errorf("PlayerCount = %d, want 2", s.PlayerCount)
	}

	none, err := db.GetSampleByPrefix("ffff")
	if err != nil {
		t.Fatalf("GetSampleByPrefix: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", none)
	}
}

func TestPlayStylesRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertSample(testSample("h1"))

	team := playstyle.PlayStyle{
		playstyle.RimAttack: {PossPct: 0.4, Pts: 1.1},
		playstyle.Misc:      {PossPct: 0.6, Pts: 0.8},
	}
	if err := db.InsertTeamPlayStyle("h1", team); err != nil {
		t.Fatalf("InsertTeamPlayStyle: %v", err)
	}
	gotTeam, err := db.GetTeamPlayStyle("h1")
	if err != nil {
		t.Fatalf("GetTeamPlayStyle: %v", err)
	}
	if len(gotTeam) != len(playstyle.TopLevelPlayTypes) {
		t.Errorf("expected every category, got %d", len(gotTeam))
	}
	if gotTeam[playstyle.RimAttack].PossPct != 0.4 {
		t.Errorf("Rim Attack possPct = %v", gotTeam[playstyle.RimAttack].PossPct)
	}

	styles := map[string]playstyle.CompressedPlayStyle{
		"AaWa": {{0, 1.2, 0.5, 0.1}, {17, 0.9, 0.5, 0.1}},
		"BrSm": nil,
	}
	if err := db.InsertPlayerPlayStyles("h1", styles); err != nil {
		t.Fatalf("InsertPlayerPlayStyles: %v", err)
	}
	got, err := db.GetPlayerPlayStyles("h1")
	if err != nil {
		t.Fatalf("GetPlayerPlayStyles: %v", err)
	}
	if len(got["AaWa"]) != 2 || got["AaWa"][1][0] != 17 {
		t.Errorf("unexpected compressed style: %v", got["AaWa"])
	}
	if len(got["BrSm"]) != 0 {
		t.Errorf("empty style should stay empty, got %v", got["BrSm"])
	}
}

func TestRatingsAndCrossSample(t *testing.T) {
	db := openMemDB(t)
	db.InsertSample(testSample("h1"))
	s2 := testSample("h2")
	s2.Season = "2025"
	db.InsertSample(s2)

	rows := []model.PlayerRating{
		{SampleHash: "h1", Code: "AaWa", ORtg: fptr(112), AdjORtg: fptr(115), DRtg: fptr(98), AdjDRtg: fptr(96), Usage: 24, OffPoss: 300},
		{SampleHash: "h1", Code: "BrSm", DRtg: fptr(101), AdjDRtg: fptr(100)},
		{SampleHash: "h2", Code: "AaWa", ORtg: fptr(108), AdjORtg: fptr(109), Usage: 22},
	}
	if err := db.InsertPlayerRatings(rows); err != nil {
		t.Fatalf("InsertPlayerRatings: %v", err)
	}

	got, err := db.GetPlayerRatings("h1")
	if err != nil {
		t.Fatalf("GetPlayerRatings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(got))
	}
	if got[0].Code != "AaWa" || got[1].ORtg != nil {
		t.Errorf("expected rated player first and nil ORtg preserved: %+v", got)
	}
	if got[0].AdjORtg == nil || math.Abs(*got[0].AdjORtg-115) > 1e-9 {
		t.Errorf("AdjORtg = %v, want 115", got[0].AdjORtg)
	}

	cross, err := db.GetPlayerRatingsAcrossSamples([]string{"AaWa"})
	if err != nil {
		t.Fatalf("GetPlayerRatingsAcrossSamples: %v", err)
	}
	if len(cross["AaWa"]) != 2 || cross["AaWa"][0].Season != "2024" {
		t.Errorf("unexpected cross-sample rows: %+v", cross["AaWa"])
	}
}

func TestWhatIfRuns(t *testing.T) {
	db := openMemDB(t)
	db.InsertSample(testSample("h1"))

	id, err := db.InsertWhatIf(model.WhatIfRun{SampleHash: "h1", Code: "AaWa", Delta3P: 0.05, RawRating: fptr(110), Rating: fptr(114)})
	if err != nil {
		t.Fatalf("InsertWhatIf: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected a uuid, got %q", id)
	}
	db.InsertWhatIf(model.WhatIfRun{SampleHash: "h1", Code: "BrSm", Side: "def", DeltaTO: -0.02})

	runs, err := db.ListWhatIfs("h1", "AaWa")
	if err != nil {
		t.Fatalf("ListWhatIfs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id || runs[0].Delta3P != 0.05 || runs[0].Side != "off" {
		t.Errorf("unexpected runs: %+v", runs)
	}
	all, _ := db.ListWhatIfs("h1", "")
	if len(all) != 2 {
		t.Errorf("expected 2 runs for the sample, got %d", len(all))
	}
}

func TestDeleteSampleCascades(t *testing.T) {
	db := openMemDB(t)
	db.InsertSample(testSample("h1"))
	db.InsertPlayerRatings([]model.PlayerRating{{SampleHash: "h1", Code: "AaWa"}})
	db.InsertWhatIf(model.WhatIfRun{SampleHash: "h1", Code: "AaWa"})

	if err := db.DeleteSample("h1"); err != nil {
		t.Fatalf("DeleteSample: %v", err)
	}
	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.TotalSamples != 0 || ov.UniquePlayers != 0 || ov.TotalWhatIfs != 0 {
		t.Errorf("expected empty store after delete, got %+v", ov)
	}
	if err := db.DeleteSample("h1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOverviewAndQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertSample(testSample("h1"))
	s2 := testSample("h2")
	s2.Team = "Purdue"
	s2.Season = "2025"
	db.InsertSample(s2)

	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.TotalSamples != 2 || ov.UniqueTeams != 2 || ov.UniquePlayers != 2 {
		t.Errorf("unexpected overview: %+v", ov)
	}
	if ov.EarliestSeason != "2024" || ov.LatestSeason != "2025" {
		t.Errorf("unexpected season range: %s..%s", ov.EarliestSeason, ov.LatestSeason)
	}

	counts, err := db.GetTeamSampleCounts()
	if err != nil {
		t.Fatalf("GetTeamSampleCounts: %v", err)
	}
	if len(counts) != 2 {
		t.Errorf("expected 2 team/context groups, got %d", len(counts))
	}

	cols, rows, err := db.QueryRaw("SELECT team, avg_efficiency, NULL AS n FROM samples ORDER BY team")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || len(rows) != 2 {
		t.Fatalf("unexpected shape: %v %v", cols, rows)
	}
	if rows[0][0] != "Maryland" || rows[0][1] != "104" || rows[0][2] != "NULL" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
}
