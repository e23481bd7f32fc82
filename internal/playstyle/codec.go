package playstyle

// CompressedPlayStyle is the persisted form of an individual play style: a
// sparse list of [typeIndex, pts, possPct, possPctUsg] tuples indexed into
// IndivPlayTypes. Only entries with nonzero possPct are kept. adjPts is not
// persisted.
type CompressedPlayStyle [][4]float64

// Compress encodes p in IndivPlayTypes order.
func Compress(p IndivPlayStyle) CompressedPlayStyle {
	out := CompressedPlayStyle{}
	for i, t := range IndivPlayTypes {
		s, ok := p[t]
		if !ok || s.PossPct == 0 {
			continue
		}
		var usg float64
		if s.PossPctUsg != nil {
			usg = *s.PossPctUsg
		}
		out = append(out, [4]float64{float64(i), s.Pts, s.PossPct, usg})
	}
	return out
}

// Decompress expands c into a full IndivPlayStyle; omitted entries are zero
// filled and out-of-range indexes are ignored. A stored possPctUsg of 0 is
// read back as absent.
func Decompress(c CompressedPlayStyle) IndivPlayStyle {
	out := make(IndivPlayStyle, len(IndivPlayTypes))
	for _, t := range IndivPlayTypes {
		out[t] = PlayTypeStat{}
	}
	for _, e := range c {
		i := int(e[0])
		if i < 0 || i >= len(IndivPlayTypes) || float64(i) != e[0] {
			continue
		}
		s := PlayTypeStat{Pts: e[1], PossPct: e[2]}
		if e[3] != 0 {
			usg := e[3]
			s.PossPctUsg = &usg
		}
		out[IndivPlayTypes[i]] = s
	}
	return out
}
