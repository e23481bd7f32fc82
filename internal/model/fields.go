package model

// ShotType is one of the three tracked field-goal zones.
type ShotType int

const (
	Shot3P ShotType = iota
	ShotMid
	ShotRim
)

// ShotTypes lists every shot type in canonical order.
var ShotTypes = [...]ShotType{Shot3P, ShotMid, ShotRim}

// Field returns the token used in stat field names ("3p", "2pmid", "2prim").
func (s ShotType) Field() string {
	switch s {
	case Shot3P:
		return "3p"
	case ShotMid:
		return "2pmid"
	default:
		return "2prim"
	}
}

// Short returns the token used in play-type lookup keys ("3p", "mid", "rim").
func (s ShotType) Short() string {
	switch s {
	case Shot3P:
		return "3p"
	case ShotMid:
		return "mid"
	default:
		return "rim"
	}
}

// Points is the value of a made shot of this type.
func (s ShotType) Points() float64 {
	if s == Shot3P {
		return 3
	}
	return 2
}

// EFGWeight scales made shots into effective field goals.
func (s ShotType) EFGWeight() float64 {
	if s == Shot3P {
		return 1.5
	}
	return 1
}

// Inside reports rim and mid-range shots.
func (s ShotType) Inside() bool {
	return s != Shot3P
}

func (s ShotType) String() string { return s.Short() }

// PositionFamily is the coarse 3-way grouping used to collapse assist networks.
type PositionFamily int

const (
	Ballhandler PositionFamily = iota
	Wing
	Big
)

// NumFamilies is the size of every family-indexed array.
const NumFamilies = 3

// Families lists every position family in index order.
var Families = [...]PositionFamily{Ballhandler, Wing, Big}

func (f PositionFamily) String() string {
	switch f {
	case Ballhandler:
		return "ballhandler"
	case Wing:
		return "wing"
	default:
		return "big"
	}
}

// FamilyWeights is a continuous weight triple over {ballhandler, wing, big}.
type FamilyWeights [NumFamilies]float64

// Sum returns the total weight.
func (w FamilyWeights) Sum() float64 {
	return w[0] + w[1] + w[2]
}

// Field-name builders. The naming convention is the wire boundary to the
// stat backend and must not change.

// PlayerTotal returns "total_off_<suffix>".
func PlayerTotal(suffix string) string { return "total_off_" + suffix }

// PlayerDefTotal returns "total_def_<suffix>".
func PlayerDefTotal(suffix string) string { return "total_def_" + suffix }

// TeamTotal returns "team_total_off_<suffix>".
func TeamTotal(suffix string) string { return "team_total_off_" + suffix }

// TeamDefTotal returns "team_total_def_<suffix>".
func TeamDefTotal(suffix string) string { return "team_total_def_" + suffix }

// OppoTotal returns "oppo_total_off_<suffix>".
func OppoTotal(suffix string) string { return "oppo_total_off_" + suffix }

// ShotField returns "<shot>_<kind>", e.g. "2prim_made".
func ShotField(s ShotType, kind string) string { return s.Field() + "_" + kind }

// ContextShotField returns "<ctx>_<shot>_<kind>", e.g. "scramble_3p_attempts".
func ContextShotField(ctx string, s ShotType, kind string) string {
	return ctx + "_" + s.Field() + "_" + kind
}

// AssistNetworkField returns "off_ast_<shot>_<side>" where side is
// "source" (teammates who assisted this player) or "target" (teammates this
// player assisted).
func AssistNetworkField(s ShotType, side string) string {
	return "off_ast_" + s.Field() + "_" + side
}

// Shot kinds.
const (
	KindMade     = "made"
	KindAttempts = "attempts"
	KindAst      = "ast"
)

// Possession contexts other than half-court.
const (
	CtxScramble   = "scramble"
	CtxTransition = "trans"
)

// Assist network sides.
const (
	SideSource = "source"
	SideTarget = "target"
)
