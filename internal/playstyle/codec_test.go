package playstyle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCompressRoundTrip(t *testing.T) {
	in := IndivPlayStyle{
		IndivRimAttack:      {PossPct: 0.25, Pts: 1.12, PossPctUsg: ptr(0.05)},
		IndivPostKickSniper: {PossPct: 0.10, Pts: 1.31, PossPctUsg: ptr(0.02)},
		IndivMisc:           {PossPct: 0.04, Pts: 0, PossPctUsg: ptr(0.008)},
	}
	got := Decompress(Compress(in))

	require.Len(t, got, len(IndivPlayTypes))
	for _, it := range IndivPlayTypes {
		want, ok := in[it]
		if !ok {
			assert.Equal(t, PlayTypeStat{}, got[it], string(it))
			continue
		}
		assert.Equal(t, want, got[it], string(it))
	}
}

func TestCompressSkipsZeroEntriesAndKeepsOrder(t *testing.T) {
	in := IndivPlayStyle{
		IndivMisc:      {PossPct: 0.1, Pts: 0.5},
		IndivRimAttack: {PossPct: 0.3, Pts: 1.2},
		IndivPutBack:   {PossPct: 0, Pts: 1.4},
	}
	got := Compress(in)
	require.Len(t, got, 2)
	assert.Equal(t, [4]float64{0, 1.2, 0.3, 0}, got[0])
	assert.Equal(t, [4]float64{17, 0.5, 0.1, 0}, got[1])

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `[[0,1.2,0.3,0],[17,0.5,0.1,0]]`, string(b))
}

func TestDecompressIgnoresBadIndexes(t *testing.T) {
	got := Decompress(CompressedPlayStyle{{-1, 1, 1, 1}, {18, 1, 1, 1}, {2.5, 1, 1, 1}, {3, 0.9, 0.2, 0}})
	assert.InDelta(t, 0.2, got.TotalPossPct(), eps)
	assert.Equal(t, 0.9, got[IndivDribbleJumper].Pts)
	assert.Nil(t, got[IndivDribbleJumper].PossPctUsg)
}

func TestCompressEmpty(t *testing.T) {
	got := Compress(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Len(t, Decompress(nil), len(IndivPlayTypes))
}
