// Package measure computes the typeset advance width of words and word
// sequences from a font's advance widths, pairwise kerning and literal
// substitution rules.
package measure

import (
	"github.com/ryanlewis/typestrings/internal/debug"
	"github.com/ryanlewis/typestrings/internal/glyphs"
)

// Evaluator measures text against one font and ruleset. It holds no mutable
// state and is safe for concurrent use when the font's kerning accessor is.
type Evaluator struct {
	font     *glyphs.Font
	rules    glyphs.Rules
	patterns [][]rune
	debug    *debug.Session
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDebug attaches a debug session; every measurement emits a measure/Word event.
func WithDebug(s *debug.Session) Option {
	return func(e *Evaluator) {
		e.debug = s
	}
}

// New creates an evaluator. Rules are applied in order; callers should drop
// rules whose glyph is missing from the font first (see glyphs.Rules.Validate),
// otherwise such runs measure as zero.
func New(font *glyphs.Font, rules glyphs.Rules, opts ...Option) *Evaluator {
	e := &Evaluator{
		font:     font,
		rules:    rules,
		patterns: make([][]rune, len(rules)),
	}
	for i, r := range rules {
		e.patterns[i] = []rune(r.Pattern)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Width returns the advance width of text.
func (e *Evaluator) Width(text string) int {
	return e.Measure(text).Width
}

// Measure computes the advance width of text.
//
// The text is scanned left to right. A position covered by a substitution
// occurrence contributes the replacement glyph's advance once per occurrence
// and no kerning; the replacement glyph then becomes the left side of the next
// kerning pair. Any other character contributes its glyph advance plus the
// kerning against the previous glyph. Characters without a glyph contribute
// nothing, are reported in Missing, and leave the previous glyph in place.
func (e *Evaluator) Measure(text string) Measurement {
	state := acquireMeasureState(text)
	defer releaseMeasureState(state)

	e.markSubstitutions(state)

	rep := e.font.Repertoire()
	width, runs := 0, 0
	last, hasLast := "", false
	prev := uncovered
	for i, r := range state.runes {
		c := state.covers[i]
		if c.rule >= 0 {
			glyph := e.rules[c.rule].Glyph
			if c != prev {
				adv, _ := e.font.Advance(glyph)
				width += adv
				runs++
			}
			last, hasLast = glyph, true
			prev = c
			continue
		}
		prev = uncovered

		name, ok := rep.Lookup(r)
		if !ok {
			state.missing = append(state.missing, r)
			continue
		}
		adv, _ := e.font.Advance(name)
		width += adv
		if hasLast {
			if k, ok := e.font.Kern(last, name); ok {
				width += k
			}
		}
		last, hasLast = name, true
	}

	m := Measurement{Text: text, Width: width, Substituted: runs}
	if len(state.missing) > 0 {
		m.Missing = append([]rune(nil), state.missing...)
	}
	if e.debug != nil {
		e.debug.Emit("measure", "Word", debug.MeasureData{
			Text:        text,
			Width:       width,
			Missing:     string(m.Missing),
			Substituted: runs,
		})
	}
	return m
}

// markSubstitutions assigns each rune position to at most one substitution
// occurrence. Rules are tried in declaration order; each rule's occurrences are
// found left to right without overlap, and a position keeps the first rule
// that covers it.
func (e *Evaluator) markSubstitutions(state *measureState) {
	runes := state.runes
	for ri, pat := range e.patterns {
		if len(pat) == 0 {
			continue
		}
		for start := 0; start+len(pat) <= len(runes); {
			if !matchAt(runes, start, pat) {
				start++
				continue
			}
			for k := start; k < start+len(pat); k++ {
				if state.covers[k].rule < 0 {
					state.covers[k] = cover{rule: ri, start: start}
				}
			}
			start += len(pat)
		}
	}
}

func matchAt(runes []rune, start int, pat []rune) bool {
	for k, r := range pat {
		if runes[start+k] != r {
			return false
		}
	}
	return true
}
