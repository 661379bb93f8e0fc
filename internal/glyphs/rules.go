package glyphs

// Rule measures every literal occurrence of Pattern as the single glyph Glyph.
type Rule struct {
	Pattern string
	Glyph   string
}

// Rules is an ordered substitution ruleset. Earlier rules win when matches
// cover the same position.
type Rules []Rule

// Validate splits the ruleset into rules whose replacement glyph exists in
// the font and rules that must be dropped. Order is preserved in both.
func (rs Rules) Validate(f *Font) (valid, dropped Rules) {
	for _, r := range rs {
		if r.Pattern == "" || !f.HasGlyph(r.Glyph) {
			dropped = append(dropped, r)
			continue
		}
		valid = append(valid, r)
	}
	return valid, dropped
}
