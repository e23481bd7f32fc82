package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonSample = `{
  "team": "Maryland",
  "season": "2024",
  "avg_efficiency": 104.5,
  "team_stats": {"team_total_off_poss": {"value": 70}},
  "players": [
    {"code": "AaWa", "position": "PG", "stats": {
      "total_off_3p_made": {"value": 4},
      "total_off_ast_rim": {"value": 3, "extraInfo": {"BrSm": 2, "CoCo": 1}}
    }},
    {"code": "BrSm"}
  ]
}`

const yamlSample = `team: Maryland
season: "2024"
context: "on"
team_stats:
  team_total_off_poss: {value: 70}
players:
  - code: AaWa
    stats:
      total_off_ast_rim:
        value: 3
        extraInfo: {BrSm: 2, CoCo: 1}
`

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseSampleJSON(t *testing.T) {
	s, err := ParseSample(writeTemp(t, "md.json", jsonSample))
	require.NoError(t, err)

	assert.Equal(t, "Maryland", s.Team)
	assert.Equal(t, "baseline", s.Context)
	assert.Equal(t, 104.5, s.AvgEfficiency)
	assert.Len(t, s.Hash, 64)
	require.Len(t, s.Players, 2)
	assert.NotNil(t, s.Players[1].Stats, "missing stats become an empty set")

	net := s.Players[0].Stats["total_off_ast_rim"].CountsByCode()
	assert.Equal(t, map[string]float64{"BrSm": 2, "CoCo": 1}, net)
}

func TestParseSampleYAML(t *testing.T) {
	s, err := ParseSample(writeTemp(t, "md.yml", yamlSample))
	require.NoError(t, err)

	assert.Equal(t, "on", s.Context)
	assert.Equal(t, 70.0, s.TeamStats.Value("team_total_off_poss"))
	net := s.Players[0].Stats["total_off_ast_rim"].CountsByCode()
	assert.Equal(t, 2.0, net["BrSm"])
}

func TestParseSampleHashIsContentAddressed(t *testing.T) {
	a, err := ParseSample(writeTemp(t, "a.json", jsonSample))
	require.NoError(t, err)
	b, err := ParseSample(writeTemp(t, "b.json", jsonSample))
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)

	c, err := Decode([]byte(yamlSample), FormatYAML)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestParseSampleErrors(t *testing.T) {
	_, err := ParseSample(writeTemp(t, "md.csv", "team,season"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseSample(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "open sample")

	_, err = Decode([]byte(`{"season": "2024"}`), FormatJSON)
	assert.ErrorContains(t, err, "team is required")

	_, err = Decode([]byte(`{"team": "x", "players": [{"code": "a"}, {"code": "a"}]}`), FormatJSON)
	assert.ErrorContains(t, err, "duplicate player code")

	_, err = Decode([]byte(`{"team": `), FormatJSON)
	assert.ErrorContains(t, err, "decode json sample")
}
