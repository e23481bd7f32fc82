package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintSampleSummary prints a one-line summary header for the sample.
func PrintSampleSummary(w io.Writer, s model.SampleSummary) {
	fmt.Fprintf(w, "\nTeam: %s  |  Season: %s  |  Context: %s  |  Players: %d  |  Hash: %s\n\n",
		s.Team, s.Season, s.Context, s.PlayerCount, shortHash(s.Hash))
}

// PrintSampleList prints one row per stored sample.
func PrintSampleList(w io.Writer, samples []model.SampleSummary) {
	table := newTable(w)
	table.Header("HASH", "TEAM", "SEASON", "CONTEXT", "PLAYERS", "AVG_EFF", "INGESTED")
	for _, s := range samples {
		table.Append(
			shortHash(s.Hash),
			s.Team,
			s.Season,
			s.Context,
			strconv.Itoa(s.PlayerCount),
			optFloat(s.AvgEfficiency, "%.1f"),
			s.IngestedAt,
		)
	}
	table.Render()
}

// PrintTeamPlayStyle prints the canonical breakdown in taxonomy order.
func PrintTeamPlayStyle(w io.Writer, style playstyle.PlayStyle) {
	table := newTable(w)
	table.Header("PLAY TYPE", "POSS%", "PTS/PLAY")
	for _, t := range playstyle.TopLevelPlayTypes {
		s := style[t]
		table.Append(string(t), pct(s.PossPct), pts(s.PossPct, s.Pts))
	}
	table.Append("TOTAL", pct(style.TotalPossPct()), "")
	table.Render()
}

// PrintIndivPlayStyle prints a player's extended breakdown. With hideEmpty,
// entries with no plays are skipped.
func PrintIndivPlayStyle(w io.Writer, code string, style playstyle.IndivPlayStyle, hideEmpty bool) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", code)
	table := newTable(w)
	table.Header("PLAY TYPE", "POSS%", "PTS/PLAY", "ADJ PTS", "POSS%×USG")
	for _, t := range playstyle.IndivPlayTypes {
		s := style[t]
		if hideEmpty && s.PossPct == 0 {
			continue
		}
		table.Append(
			string(t),
			pct(s.PossPct),
			pts(s.PossPct, s.Pts),
			optPtr(s.AdjPts, "%.2f"),
			optPtrPct(s.PossPctUsg),
		)
	}
	table.Render()
}

// PrintRatingTable prints per-player ratings. If focus is non-empty, that
// player's row is marked with ">".
func PrintRatingTable(w io.Writer, ratings []model.PlayerRating, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "ORTG", "ADJ_ORTG", "DRTG", "ADJ_DRTG", "USG%", "POSS", "SAMPLE")
	for _, r := range ratings {
		marker := " "
		if focus != "" && r.Code == focus {
			marker = ">"
		}
		table.Append(
			marker,
			r.Code,
			optPtr(r.ORtg, "%.1f"),
			optPtr(r.AdjORtg, "%.1f"),
			optPtr(r.DRtg, "%.1f"),
			optPtr(r.AdjDRtg, "%.1f"),
			fmt.Sprintf("%.1f", r.Usage),
			fmt.Sprintf("%.0f", r.OffPoss),
			possessionFlag(r.OffPoss),
		)
	}
	table.Render()
}

// PrintPlayerAcrossSamples prints one player's ratings over every stored sample.
func PrintPlayerAcrossSamples(w io.Writer, code string, rows []model.PlayerSampleRating) {
	fmt.Fprintf(w, "\n--- %s (%d samples) ---\n\n", code, len(rows))
	table := newTable(w)
	table.Header("HASH", "TEAM", "SEASON", "CONTEXT", "ORTG", "ADJ_ORTG", "DRTG", "ADJ_DRTG", "USG%", "POSS")
	for _, r := range rows {
		table.Append(
			shortHash(r.SampleHash),
			r.Team,
			r.Season,
			r.Context,
			optPtr(r.ORtg, "%.1f"),
			optPtr(r.AdjORtg, "%.1f"),
			optPtr(r.DRtg, "%.1f"),
			optPtr(r.AdjDRtg, "%.1f"),
			fmt.Sprintf("%.1f", r.Usage),
			fmt.Sprintf("%.0f", r.OffPoss),
		)
	}
	table.Render()
}

// PrintWhatIfTable prints stored what-if runs, raw against overridden rating.
func PrintWhatIfTable(w io.Writer, runs []model.WhatIfRun) {
	table := newTable(w)
	table.Header("RUN", "PLAYER", "SIDE", "3P", "MID", "RIM", "FT", "TO", "RATING", "WHAT-IF", "Δ", "ADJ Δ")
	for _, r := range runs {
		table.Append(
			shortID(r.ID),
			r.Code,
			r.Side,
			pp(r.Delta3P),
			pp(r.DeltaMid),
			pp(r.DeltaRim),
			pp(r.DeltaFT),
			pp(r.DeltaTO),
			optPtr(r.RawRating, "%.1f"),
			optPtr(r.Rating, "%.1f"),
			diff(r.Rating, r.RawRating),
			diff(r.AdjRating, r.RawAdjRating),
		)
	}
	table.Render()
}

// PrintPlayTypeTaxonomy prints both taxonomies with their frozen indexes.
func PrintPlayTypeTaxonomy(w io.Writer) {
	table := newTable(w)
	table.Header("IDX", "INDIVIDUAL", "CANONICAL")
	for i, t := range playstyle.IndivPlayTypes {
		table.Append(strconv.Itoa(i), string(t), string(t.Canonical()))
	}
	table.Render()
}

// PrintPlayTypeLookup prints the cell-key to play-type distribution table.
func PrintPlayTypeLookup(w io.Writer) {
	table := newTable(w)
	table.Header("KEY", "PLAY TYPE", "WEIGHT")
	for _, k := range playstyle.PlayTypeTableKeys() {
		for i, pw := range playstyle.PlayTypeTable[k] {
			key := k
			if i > 0 {
				key = ""
			}
			table.Append(key, string(pw.Type), fmt.Sprintf("%.2f", pw.Weight))
		}
	}
	table.Render()
}

// PrintDecomposition prints a player's decomposition rows normalised by the
// player's own plays, one line per row field.
func PrintDecomposition(w io.Writer, style playstyle.PlayerStyle) {
	fmt.Fprintf(w, "\n--- %s (%s) ---\n\n", style.Code, style.Mode)
	table := newTable(w)
	table.Header("ROW", "FIELD", "VALUE", "NOTE")
	value := pct
	if style.Mode == playstyle.PointsPer100 {
		value = func(v float64) string { return fmt.Sprintf("%.2f", v) }
	}
	for r, row := range style.PlayerRates() {
		for _, k := range row.Keys() {
			table.Append(playstyle.RowType(r).String(), k, value(row[k].Value), row[k].Override)
		}
	}
	table.Render()
}

// PrintPositionFamilies prints the family weights of every recognised
// position label.
func PrintPositionFamilies(w io.Writer) {
	table := newTable(w)
	table.Header("POSITION", "BALLHANDLER", "WING", "BIG")
	for _, label := range playstyle.KnownPositions() {
		fw := playstyle.ClassifyPosition(label)
		table.Append(label,
			fmt.Sprintf("%.2f", fw[model.Ballhandler]),
			fmt.Sprintf("%.2f", fw[model.Wing]),
			fmt.Sprintf("%.2f", fw[model.Big]))
	}
	table.Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", 100*v) }

// pts prints a dash for play types with no frequency.
func pts(possPct, v float64) string {
	if possPct == 0 {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

func pp(v float64) string {
	if v == 0 {
		return "—"
	}
	return fmt.Sprintf("%+.1f", 100*v)
}

func optFloat(v float64, format string) string {
	if v == 0 {
		return "—"
	}
	return fmt.Sprintf(format, v)
}

func optPtr(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

func optPtrPct(v *float64) string {
	if v == nil {
		return "—"
	}
	return pct(*v)
}

func diff(a, b *float64) string {
	if a == nil || b == nil {
		return "—"
	}
	return fmt.Sprintf("%+.1f", *a-*b)
}

func possessionFlag(poss float64) string {
	switch {
	case poss >= 200:
		return "OK"
	case poss >= 75:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}
