package measure

import (
	"fmt"
	"strings"

	"github.com/ryanlewis/typestrings/internal/common"
)

// ErrUnmappedGlyph marks characters skipped because the font has no glyph for them.
var ErrUnmappedGlyph = common.ErrUnmappedGlyph

// Measurement is the evaluated advance width of a word or word sequence.
type Measurement struct {
	// Text is the measured string
	Text string
	// Width is the advance width in font design units, kerning included
	Width int
	// Missing lists characters without a glyph, in order of appearance
	Missing []rune
	// Substituted counts substitution runs measured as a single glyph
	Substituted int
}

// Err returns an *UnmappedGlyphError when characters were skipped, nil otherwise.
// Width remains valid either way.
func (m Measurement) Err() error {
	if len(m.Missing) == 0 {
		return nil
	}
	return &UnmappedGlyphError{Text: m.Text, Runes: m.Missing}
}

// UnmappedGlyphError reports characters skipped while measuring Text.
type UnmappedGlyphError struct {
	Text  string
	Runes []rune
}

func (e *UnmappedGlyphError) Error() string {
	parts := make([]string, len(e.Runes))
	for i, r := range e.Runes {
		parts[i] = fmt.Sprintf("%q (U+%04X)", r, r)
	}
	return fmt.Sprintf("%v in %q: %s", ErrUnmappedGlyph, e.Text, strings.Join(parts, ", "))
}

// Is lets errors.Is match ErrUnmappedGlyph.
func (e *UnmappedGlyphError) Is(target error) bool {
	return target == ErrUnmappedGlyph
}

// cover marks the substitution occurrence a rune position belongs to.
// rule is -1 for unsubstituted positions.
type cover struct {
	rule  int
	start int
}

var uncovered = cover{rule: -1, start: -1}

// measureState holds the scratch buffers of one measurement.
type measureState struct {
	runes   []rune
	covers  []cover
	missing []rune
}
