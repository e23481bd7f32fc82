package model

// Box is a raw offensive box line read out of a stat set under one prefix
// convention (player, team or opponent).
type Box struct {
	Made, Attempts, Ast [3]float64 // indexed by ShotType
	FTA, FTM            float64
	Assists, TO, ORB    float64
	PTS                 float64
}

// FGM returns total made field goals.
func (b Box) FGM() float64 { return b.Made[0] + b.Made[1] + b.Made[2] }

// FGA returns total field-goal attempts.
func (b Box) FGA() float64 { return b.Attempts[0] + b.Attempts[1] + b.Attempts[2] }

// Points returns PTS when recorded, otherwise the value of makes plus FTM.
func (b Box) Points() float64 {
	if b.PTS > 0 {
		return b.PTS
	}
	return 3*b.Made[Shot3P] + 2*b.Made[ShotMid] + 2*b.Made[ShotRim] + b.FTM
}

// ReadBox extracts a box line; name maps a suffix such as "3p_made" to the
// full field name (e.g. PlayerTotal or TeamTotal).
func ReadBox(s StatSet, name func(string) string) Box {
	var b Box
	for _, st := range ShotTypes {
		b.Made[st] = s.Value(name(ShotField(st, KindMade)))
		b.Attempts[st] = s.Value(name(ShotField(st, KindAttempts)))
		b.Ast[st] = s.Value(name(ShotField(st, KindAst)))
	}
	b.FTA = s.Value(name("fta"))
	b.FTM = s.Value(name("ftm"))
	b.Assists = s.Value(name("assist"))
	b.TO = s.Value(name("to"))
	b.ORB = s.Value(name("orb"))
	b.PTS = s.Value(name("pts"))
	return b
}

// ContextBox is the scramble or transition slice of a player's offense.
type ContextBox struct {
	Made, Attempts, Ast [3]float64
	FTA, FTM            float64
	TO, Assists         float64
}

// FGA returns total attempts in this context.
func (c ContextBox) FGA() float64 { return c.Attempts[0] + c.Attempts[1] + c.Attempts[2] }

// ReadContextBox extracts the scramble ("scramble") or transition ("trans")
// totals; name is PlayerTotal or TeamTotal.
func ReadContextBox(s StatSet, name func(string) string, ctx string) ContextBox {
	var c ContextBox
	for _, st := range ShotTypes {
		c.Made[st] = s.Value(name(ContextShotField(ctx, st, KindMade)))
		c.Attempts[st] = s.Value(name(ContextShotField(ctx, st, KindAttempts)))
		c.Ast[st] = s.Value(name(ContextShotField(ctx, st, KindAst)))
	}
	c.FTA = s.Value(name(ctx + "_fta"))
	c.FTM = s.Value(name(ctx + "_ftm"))
	c.TO = s.Value(name(ctx + "_to"))
	c.Assists = s.Value(name(ctx + "_assist"))
	return c
}
