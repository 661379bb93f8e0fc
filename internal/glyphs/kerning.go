package glyphs

// Kerning answers the adjustment between an ordered pair of glyphs.
// Implementations must be safe for concurrent reads.
type Kerning interface {
	Kern(left, right string) (int, bool)
}

// Pair is an ordered glyph pair.
type Pair struct {
	Left, Right string
}

// PairTable is a flat kerning table. Class kerning must be expanded into
// glyph pairs before it lands here.
type PairTable map[Pair]int

// Kern implements Kerning.
func (t PairTable) Kern(left, right string) (int, bool) {
	v, ok := t[Pair{Left: left, Right: right}]
	return v, ok
}

// Len returns the number of recorded pairs.
func (t PairTable) Len() int {
	return len(t)
}
