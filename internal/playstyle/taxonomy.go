package playstyle

import (
	"sort"

	"github.com/pable/go-cbb-metrics/internal/model"
)

// TopLevelPlayType is one canonical play-type category.
type TopLevelPlayType string

const (
	RimAttack     TopLevelPlayType = "Rim Attack"
	AttackAndKick TopLevelPlayType = "Attack & Kick"
	DribbleJumper TopLevelPlayType = "Dribble Jumper"
	MidRange      TopLevelPlayType = "Mid-Range"
	BackdoorCut   TopLevelPlayType = "Backdoor Cut"
	BigCutAndRoll TopLevelPlayType = "Big Cut & Roll"
	PostUp        TopLevelPlayType = "Post-Up"
	PostAndKick   TopLevelPlayType = "Post & Kick"
	PickAndPop    TopLevelPlayType = "Pick & Pop"
	HighLow       TopLevelPlayType = "High-Low"
	PutBack       TopLevelPlayType = "Put-Back"
	Transition    TopLevelPlayType = "Transition"
	Misc          TopLevelPlayType = "Misc"
)

// TopLevelPlayTypes is the canonical taxonomy. The order is a persisted
// contract: never reorder, insert or remove entries.
var TopLevelPlayTypes = []TopLevelPlayType{
	RimAttack, AttackAndKick, DribbleJumper, MidRange, BackdoorCut, BigCutAndRoll,
	PostUp, PostAndKick, PickAndPop, HighLow, PutBack, Transition, Misc,
}

// IndivPlayType is one entry of the extended individual taxonomy.
type IndivPlayType string

const (
	IndivRimAttack       IndivPlayType = "Rim Attack"
	IndivAttackAndKick   IndivPlayType = "Attack & Kick"
	IndivPerimeterSniper IndivPlayType = "Perimeter Sniper"
	IndivDribbleJumper   IndivPlayType = "Dribble Jumper"
	IndivMidRange        IndivPlayType = "Mid-Range"
	IndivBackdoorCut     IndivPlayType = "Backdoor Cut"
	IndivHitsCutter      IndivPlayType = "Hits Cutter"
	IndivBigCutAndRoll   IndivPlayType = "Big Cut & Roll"
	IndivPnRPasser       IndivPlayType = "PnR Passer"
	IndivPostUp          IndivPlayType = "Post-Up"
	IndivPostAndKick     IndivPlayType = "Post & Kick"
	IndivPostKickSniper  IndivPlayType = "Post & Kick Sniper"
	IndivPickAndPop      IndivPlayType = "Pick & Pop"
	IndivPnRPopPasser    IndivPlayType = "PnR Pop Passer"
	IndivHighLow         IndivPlayType = "High-Low"
	IndivPutBack         IndivPlayType = "Put-Back"
	IndivTransition      IndivPlayType = "Transition"
	IndivMisc            IndivPlayType = "Misc"
)

// IndivPlayTypes is the extended individual taxonomy. The compressed
// play-style format indexes into this slice, so its order is frozen.
var IndivPlayTypes = []IndivPlayType{
	IndivRimAttack, IndivAttackAndKick, IndivPerimeterSniper, IndivDribbleJumper,
	IndivMidRange, IndivBackdoorCut, IndivHitsCutter, IndivBigCutAndRoll,
	IndivPnRPasser, IndivPostUp, IndivPostAndKick, IndivPostKickSniper,
	IndivPickAndPop, IndivPnRPopPasser, IndivHighLow, IndivPutBack,
	IndivTransition, IndivMisc,
}

// indivToCanonical collapses the extended set back to the canonical one.
var indivToCanonical = map[IndivPlayType]TopLevelPlayType{
	IndivRimAttack:       RimAttack,
	IndivAttackAndKick:   AttackAndKick,
	IndivPerimeterSniper: AttackAndKick,
	IndivDribbleJumper:   DribbleJumper,
	IndivMidRange:        MidRange,
	IndivBackdoorCut:     BackdoorCut,
	IndivHitsCutter:      BackdoorCut,
	IndivBigCutAndRoll:   BigCutAndRoll,
	IndivPnRPasser:       BigCutAndRoll,
	IndivPostUp:          PostUp,
	IndivPostAndKick:     PostAndKick,
	IndivPostKickSniper:  PostAndKick,
	IndivPickAndPop:      PickAndPop,
	IndivPnRPopPasser:    PickAndPop,
	IndivHighLow:         HighLow,
	IndivPutBack:         PutBack,
	IndivTransition:      Transition,
	IndivMisc:            Misc,
}

// Canonical returns the canonical category an extended entry rolls up into.
func (t IndivPlayType) Canonical() TopLevelPlayType {
	return indivToCanonical[t]
}

// scorerSide and passerSide rename canonical categories for the individual
// view depending on whether the player took the shot or made the pass.
var scorerSide = map[TopLevelPlayType]IndivPlayType{
	AttackAndKick: IndivPerimeterSniper,
	PostAndKick:   IndivPostKickSniper,
}

var passerSide = map[TopLevelPlayType]IndivPlayType{
	BackdoorCut:   IndivHitsCutter,
	BigCutAndRoll: IndivPnRPasser,
	PickAndPop:    IndivPnRPopPasser,
}

func asScorer(t TopLevelPlayType) IndivPlayType {
	if it, ok := scorerSide[t]; ok {
		return it
	}
	return IndivPlayType(t)
}

func asPasser(t TopLevelPlayType) IndivPlayType {
	if it, ok := passerSide[t]; ok {
		return it
	}
	return IndivPlayType(t)
}

// PlayTypeWeight is one slice of a lookup-table distribution.
type PlayTypeWeight struct {
	Type   TopLevelPlayType
	Weight float64
}

// PlayTypeTable maps a matrix cell key, "{scorer}_{shot}" for unassisted
// shots, "{scorer}_sf" for shooting fouls and "{scorer}_{shot}_{passer}" for
// assisted shots, to its play-type distribution. Weights in each entry sum to 1.
var PlayTypeTable = map[string][]PlayTypeWeight{
	// unassisted
	"ballhandler_rim": {{RimAttack, 1.0}},
	"ballhandler_mid": {{DribbleJumper, 0.5}, {MidRange, 0.5}},
	"ballhandler_3p":  {{DribbleJumper, 1.0}},
	"ballhandler_sf":  {{RimAttack, 1.0}},
	"wing_rim":        {{RimAttack, 1.0}},
	"wing_mid":        {{MidRange, 0.7}, {DribbleJumper, 0.3}},
	"wing_3p":         {{DribbleJumper, 1.0}},
	"wing_sf":         {{RimAttack, 0.8}, {PostUp, 0.2}},
	"big_rim":         {{PostUp, 0.7}, {RimAttack, 0.3}},
	"big_mid":         {{PostUp, 0.5}, {MidRange, 0.5}},
	"big_3p":          {{PickAndPop, 0.5}, {DribbleJumper, 0.5}},
	"big_sf":          {{PostUp, 0.7}, {BigCutAndRoll, 0.3}},

	// ballhandler scoring off a pass
	"ballhandler_rim_ballhandler": {{BackdoorCut, 0.5}, {RimAttack, 0.5}},
	"ballhandler_rim_wing":        {{BackdoorCut, 0.5}, {RimAttack, 0.5}},
	"ballhandler_rim_big":         {{BackdoorCut, 1.0}},
	"ballhandler_mid_ballhandler": {{MidRange, 1.0}},
	"ballhandler_mid_wing":        {{MidRange, 1.0}},
	"ballhandler_mid_big":         {{PostAndKick, 0.5}, {MidRange, 0.5}},
	"ballhandler_3p_ballhandler":  {{AttackAndKick, 1.0}},
	"ballhandler_3p_wing":         {{AttackAndKick, 1.0}},
	"ballhandler_3p_big":          {{PostAndKick, 1.0}},

	// wing scoring off a pass
	"wing_rim_ballhandler": {{BackdoorCut, 1.0}},
	"wing_rim_wing":        {{BackdoorCut, 1.0}},
	"wing_rim_big":         {{BackdoorCut, 1.0}},
	"wing_mid_ballhandler": {{MidRange, 1.0}},
	"wing_mid_wing":        {{MidRange, 1.0}},
	"wing_mid_big":         {{PostAndKick, 0.5}, {MidRange, 0.5}},
	"wing_3p_ballhandler":  {{AttackAndKick, 1.0}},
	"wing_3p_wing":         {{AttackAndKick, 1.0}},
	"wing_3p_big":          {{PostAndKick, 1.0}},

	// big scoring off a pass
	"big_rim_ballhandler": {{BigCutAndRoll, 1.0}},
	"big_rim_wing":        {{BigCutAndRoll, 1.0}},
	"big_rim_big":         {{HighLow, 1.0}},
	"big_mid_ballhandler": {{PickAndPop, 0.5}, {BigCutAndRoll, 0.5}},
	"big_mid_wing":        {{PickAndPop, 0.5}, {BigCutAndRoll, 0.5}},
	"big_mid_big":         {{HighLow, 1.0}},
	"big_3p_ballhandler":  {{PickAndPop, 1.0}},
	"big_3p_wing":         {{PickAndPop, 1.0}},
	"big_3p_big":          {{PickAndPop, 0.5}, {PostAndKick, 0.5}},
}

// UnassistedKey returns the lookup key for an unassisted shot.
func UnassistedKey(scorer model.PositionFamily, st model.ShotType) string {
	return scorer.String() + "_" + st.Short()
}

// FoulKey returns the lookup key for shooting fouls drawn.
func FoulKey(scorer model.PositionFamily) string {
	return scorer.String() + "_sf"
}

// AssistedKey returns the lookup key for an assisted shot.
func AssistedKey(scorer model.PositionFamily, st model.ShotType, passer model.PositionFamily) string {
	return scorer.String() + "_" + st.Short() + "_" + passer.String()
}

// PlayTypeTableKeys returns the table keys in sorted order.
func PlayTypeTableKeys() []string {
	keys := make([]string, 0, len(PlayTypeTable))
	for k := range PlayTypeTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PlayTypeStat is the frequency and efficiency of one play type.
type PlayTypeStat struct {
	PossPct    float64  `json:"possPct"`
	Pts        float64  `json:"pts"`
	AdjPts     *float64 `json:"adjPts,omitempty"`
	PossPctUsg *float64 `json:"possPctUsg,omitempty"`
}

// PlayStyle is the canonical play-type breakdown; every category is present.
type PlayStyle map[TopLevelPlayType]PlayTypeStat

// IndivPlayStyle is the extended individual breakdown; every entry is present.
type IndivPlayStyle map[IndivPlayType]PlayTypeStat

// TotalPossPct sums possPct over all categories.
func (p PlayStyle) TotalPossPct() float64 {
	var sum float64
	for _, t := range TopLevelPlayTypes {
		sum += p[t].PossPct
	}
	return sum
}

// TotalPossPct sums possPct over all entries.
func (p IndivPlayStyle) TotalPossPct() float64 {
	var sum float64
	for _, t := range IndivPlayTypes {
		sum += p[t].PossPct
	}
	return sum
}

// Canonical collapses the extended breakdown into canonical categories.
// Points are re-averaged by frequency; possPctUsg sums. adjPts is
// re-averaged the same way, and only kept for a category when every entry
// with plays in it carries one.
func (p IndivPlayStyle) Canonical() PlayStyle {
	type accum struct {
		poss, ptsNum, adjNum, usg float64
		hasAdj, missingAdj        bool
	}
	acc := make(map[TopLevelPlayType]*accum)
	hasUsg := false
	for _, t := range IndivPlayTypes {
		s := p[t]
		c := t.Canonical()
		a := acc[c]
		if a == nil {
			a = &accum{}
			acc[c] = a
		}
		a.poss += s.PossPct
		a.ptsNum += s.PossPct * s.Pts
		switch {
		case s.AdjPts != nil:
			a.hasAdj = true
			a.adjNum += s.PossPct * *s.AdjPts
		case s.PossPct > 0:
			a.missingAdj = true
		}
		if s.PossPctUsg != nil {
			hasUsg = true
			a.usg += *s.PossPctUsg
		}
	}
	out := make(PlayStyle, len(TopLevelPlayTypes))
	for _, t := range TopLevelPlayTypes {
		a := acc[t]
		if a == nil {
			out[t] = PlayTypeStat{}
			continue
		}
		st := PlayTypeStat{PossPct: a.poss}
		if a.poss > 0 {
			st.Pts = a.ptsNum / a.poss
		}
		if a.hasAdj && !a.missingAdj {
			var adj float64
			if a.poss > 0 {
				adj = a.adjNum / a.poss
			}
			st.AdjPts = &adj
		}
		if hasUsg {
			usg := a.usg
			st.PossPctUsg = &usg
		}
		out[t] = st
	}
	return out
}
