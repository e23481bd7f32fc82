package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/playstyle"
	"github.com/pable/go-cbb-metrics/internal/storage"
)

var exportOut string

// sampleExport is the JSON document written by export. Player play styles
// keep the compressed [index, pts, possPct, possPctUsg] layout.
type sampleExport struct {
	Hash          string                                    `json:"hash"`
	Team          string                                    `json:"team"`
	Season        string                                    `json:"season"`
	Context       string                                    `json:"context"`
	AvgEfficiency float64                                   `json:"avg_efficiency,omitempty"`
	TeamPlayStyle map[playstyle.TopLevelPlayType]exportStat `json:"team_play_style"`
	Players       []playerExport                            `json:"players"`
	GeneratedAt   string                                    `json:"generated_at"`
}

type exportStat struct {
	PossPct float64 `json:"possPct"`
	Pts     float64 `json:"pts"`
}

type playerExport struct {
	Code      string                        `json:"code"`
	PlayStyle playstyle.CompressedPlayStyle `json:"play_style"`
	ORtg      *float64                      `json:"ortg"`
	AdjORtg   *float64                      `json:"adj_ortg"`
	DRtg      *float64                      `json:"drtg"`
	AdjDRtg   *float64                      `json:"adj_drtg"`
	Usage     float64                       `json:"usage"`
	OffPoss   float64                       `json:"off_poss"`
}

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a sample's derived outputs as JSON",
	Long: `Write the team play-type breakdown, every player's compressed individual
play-style vector and the rating rows of one stored sample as a JSON document.

Example:
  cbbmetrics export 3fa9 --out maryland-2024.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := db.GetSampleByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query sample: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("no sample found with hash prefix %q", args[0])
	}
	doc, err := buildExport(db, *summary)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')
	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d players)\n", exportOut, len(doc.Players))
	return nil
}

func buildExport(db *storage.DB, s model.SampleSummary) (sampleExport, error) {
	team, err := db.GetTeamPlayStyle(s.Hash)
	if err != nil {
		return sampleExport{}, fmt.Errorf("get team play style: %w", err)
	}
	styles, err := db.GetPlayerPlayStyles(s.Hash)
	if err != nil {
		return sampleExport{}, fmt.Errorf("get player play styles: %w", err)
	}
	ratings, err := db.GetPlayerRatings(s.Hash)
	if err != nil {
		return sampleExport{}, fmt.Errorf("get ratings: %w", err)
	}

	doc := sampleExport{
		Hash:          s.Hash,
		Team:          s.Team,
		Season:        s.Season,
		Context:       s.Context,
		AvgEfficiency: s.AvgEfficiency,
		TeamPlayStyle: make(map[playstyle.TopLevelPlayType]exportStat, len(team)),
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for t, st := range team {
		doc.TeamPlayStyle[t] = exportStat{PossPct: st.PossPct, Pts: st.Pts}
	}
	for _, r := range ratings {
		doc.Players = append(doc.Players, playerExport{
			Code:      r.Code,
			PlayStyle: styles[r.Code],
			ORtg:      r.ORtg,
			AdjORtg:   r.AdjORtg,
			DRtg:      r.DRtg,
			AdjDRtg:   r.AdjDRtg,
			Usage:     r.Usage,
			OffPoss:   r.OffPoss,
		})
	}
	return doc, nil
}
