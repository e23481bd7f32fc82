package report

import (
	"fmt"
	"io"

	"github.com/pable/go-cbb-metrics/internal/model"
	"github.com/pable/go-cbb-metrics/internal/rating"
)

type term struct {
	name  string
	value float64
}

func printTerms(w io.Writer, title string, terms []term) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", title)
	table := newTable(w)
	table.Header("TERM", "VALUE")
	for _, t := range terms {
		table.Append(t.name, fmt.Sprintf("%.4f", t.value))
	}
	table.Render()
}

func shotTerms(prefix string, v [3]float64) []term {
	out := make([]term, 0, len(model.ShotTypes))
	for _, st := range model.ShotTypes {
		out = append(out, term{prefix + "_" + st.Short(), v[st]})
	}
	return out
}

// PrintORtgDiagnostics prints every intermediate term of the offensive rating.
func PrintORtgDiagnostics(w io.Writer, title string, d *rating.ORtgDiagnostics) {
	if d == nil {
		return
	}
	var terms []term
	terms = append(terms, shotTerms("eFG", d.EFG)...)
	terms = append(terms, shotTerms("ast%", d.AssistedPct)...)
	terms = append(terms, shotTerms("tm_eFG", d.TeammateEFG)...)
	terms = append(terms, shotTerms("ast", d.AssistsByShot)...)
	terms = append(terms,
		term{"FG_Part", d.FGPart},
		term{"AST_Part", d.ASTPart},
		term{"FT_Part", d.FTPart},
		term{"ORB", d.ORB},
		term{"ORB_Part", d.ORBPart},
		term{"Team_Scoring_Poss", d.TeamScoringPoss},
		term{"Team_ORB%", d.TeamORBPct},
		term{"Team_Play%", d.TeamPlayPct},
		term{"Team_ORB_Weight", d.TeamORBWeight},
		term{"ScPoss_Scale", d.ScPossScale},
		term{"ScPoss", d.ScPoss},
		term{"FGxPoss", d.FGxPoss},
		term{"FTxPoss", d.FTxPoss},
		term{"TOV", d.TOV},
		term{"TotPoss", d.TotPoss},
		term{"PProd_FG_Part", d.PProdFGPart},
		term{"PProd_AST_Part", d.PProdASTPart},
		term{"PProd_ORB_Part", d.PProdORBPart},
		term{"PProd", d.PProd},
		term{"ORtg", d.ORtg},
		term{"Usage", d.Usage},
		term{"SD_at_Usage", d.SDAtUsage},
		term{"Regressed", d.Regressed},
		term{"Usage_Bonus", d.UsageBonus},
		term{"SOS_Factor", d.SOSFactor},
		term{"Adj_ORtg", d.AdjORtg},
	)
	printTerms(w, title, terms)
}

// PrintDRtgDiagnostics prints every intermediate term of the defensive rating.
func PrintDRtgDiagnostics(w io.Writer, title string, d *rating.DRtgDiagnostics) {
	if d == nil {
		return
	}
	printTerms(w, title, []term{
		{"STL", d.STL},
		{"BLK", d.BLK},
		{"DRB", d.DRB},
		{"PF", d.PF},
		{"Opp_FGA", d.OppFGA},
		{"Opp_FGM", d.OppFGM},
		{"Opp_FTA", d.OppFTA},
		{"Opp_FTM", d.OppFTM},
		{"Opp_ORB", d.OppORB},
		{"Opp_TOV", d.OppTOV},
		{"Opp_PTS", d.OppPTS},
		{"Team_Def_Poss", d.TeamDefPoss},
		{"DOR%", d.DORPct},
		{"DFG%", d.DFGPct},
		{"FMwt", d.FMwt},
		{"Stops1", d.Stops1},
		{"Stops2", d.Stops2},
		{"Stops", d.Stops},
		{"Stop%", d.StopPct},
		{"Team_DRtg", d.TeamDRtg},
		{"D_Pts_per_ScPoss", d.DPtsPerScPoss},
		{"Player_DRtg", d.PlayerDRtg},
		{"DRtg", d.DRtg},
		{"SOS_Factor", d.SOSFactor},
		{"Adj_DRtg", d.AdjDRtg},
	})
}
