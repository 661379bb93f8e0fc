// Package glyphs holds the read-only font data the width evaluator consumes:
// the glyph repertoire, advance widths, the kerning accessor and substitution
// rules.
//
// Glyphs are identified by name. UFO fonts key everything by glyph name, and
// OpenType fonts expose names through their post or CFF tables, so kerning
// pairs and substitution targets share one identity across font formats.
package glyphs

import (
	"fmt"
	"sort"
)

// Glyph is one entry of a font's glyph set as delivered by a font loader.
type Glyph struct {
	// Name identifies the glyph (e.g. "a", "f_i")
	Name string
	// Advance is the advance width in font design units
	Advance int
	// Codepoints lists the characters mapped to this glyph, possibly none
	Codepoints []rune
}

// Duplicate records a codepoint claimed by more than one glyph.
type Duplicate struct {
	Codepoint rune
	Kept      string // first registered glyph, owns the codepoint
	Ignored   string // later glyph whose claim was dropped
}

func (d Duplicate) String() string {
	return fmt.Sprintf("U+%04X kept %s, ignored %s", d.Codepoint, d.Kept, d.Ignored)
}

// Font is an immutable view of a font's metrics. It is safe for concurrent
// use as long as its Kerning accessor is.
type Font struct {
	// Name is the font's display name
	Name string
	// Format names the source format ("ufo", "opentype")
	Format string
	// UnitsPerEm is the design grid size
	UnitsPerEm int
	// Duplicates lists codepoint claims dropped while building the repertoire
	Duplicates []Duplicate

	repertoire *Repertoire
	advances   map[string]int
	kerning    Kerning
}

// Repertoire returns the font's codepoint to glyph mapping.
func (f *Font) Repertoire() *Repertoire {
	if f == nil {
		return emptyRepertoire
	}
	return f.repertoire
}

// Advance returns the advance width of the named glyph.
func (f *Font) Advance(name string) (int, bool) {
	if f == nil {
		return 0, false
	}
	w, ok := f.advances[name]
	return w, ok
}

// HasGlyph reports whether the font contains a glyph with the given name.
func (f *Font) HasGlyph(name string) bool {
	_, ok := f.Advance(name)
	return ok
}

// NumGlyphs returns the number of glyphs in the font, encoded or not.
func (f *Font) NumGlyphs() int {
	if f == nil {
		return 0
	}
	return len(f.advances)
}

// Kern returns the kerning adjustment between two glyphs. Absent pairs
// report false and must be treated as zero.
func (f *Font) Kern(left, right string) (int, bool) {
	if f == nil || f.kerning == nil {
		return 0, false
	}
	return f.kerning.Kern(left, right)
}

// Kerning returns the font's kerning accessor, which may be nil.
func (f *Font) Kerning() Kerning {
	if f == nil {
		return nil
	}
	return f.kerning
}

// Builder assembles a Font from glyphs delivered in font order.
//
// Duplicate policy: the first glyph registered for a codepoint keeps it.
// Later claims are recorded in Font.Duplicates and otherwise ignored.
type Builder struct {
	name       string
	format     string
	unitsPerEm int
	cmap       map[rune]string
	advances   map[string]int
	duplicates []Duplicate
	kerning    Kerning
}

// NewBuilder creates a builder for a font with the given name and format.
func NewBuilder(name, format string, unitsPerEm int) *Builder {
	return &Builder{
		name:       name,
		format:     format,
		unitsPerEm: unitsPerEm,
		cmap:       make(map[rune]string, 256),
		advances:   make(map[string]int, 256),
	}
}

// Add registers a glyph. Adding a glyph name twice replaces its advance but
// never moves a codepoint already owned by another glyph.
func (b *Builder) Add(g Glyph) {
	b.advances[g.Name] = g.Advance
	for _, r := range g.Codepoints {
		if owner, ok := b.cmap[r]; ok {
			if owner != g.Name {
				b.duplicates = append(b.duplicates, Duplicate{Codepoint: r, Kept: owner, Ignored: g.Name})
			}
			continue
		}
		b.cmap[r] = g.Name
	}
}

// SetKerning sets the kerning accessor of the font being built.
func (b *Builder) SetKerning(k Kerning) {
	b.kerning = k
}

// Build returns the immutable font. The builder must not be used afterwards.
func (b *Builder) Build() *Font {
	return &Font{
		Name:       b.name,
		Format:     b.format,
		UnitsPerEm: b.unitsPerEm,
		Duplicates: b.duplicates,
		repertoire: &Repertoire{cmap: b.cmap},
		advances:   b.advances,
		kerning:    b.kerning,
	}
}

// Repertoire maps codepoints to glyph names.
type Repertoire struct {
	cmap map[rune]string
}

var emptyRepertoire = &Repertoire{cmap: map[rune]string{}}

// Lookup returns the glyph name for a codepoint.
func (r *Repertoire) Lookup(c rune) (string, bool) {
	if r == nil {
		return "", false
	}
	name, ok := r.cmap[c]
	return name, ok
}

// Contains reports whether the codepoint can be rendered.
func (r *Repertoire) Contains(c rune) bool {
	if r == nil {
		return false
	}
	_, ok := r.cmap[c]
	return ok
}

// Len returns the number of mapped codepoints.
func (r *Repertoire) Len() int {
	if r == nil {
		return 0
	}
	return len(r.cmap)
}

// Runes returns all mapped codepoints in ascending order.
func (r *Repertoire) Runes() []rune {
	if r == nil {
		return nil
	}
	out := make([]rune, 0, len(r.cmap))
	for c := range r.cmap {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
