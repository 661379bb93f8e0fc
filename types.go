package typestrings

import (
	"github.com/ryanlewis/typestrings/internal/common"
	"github.com/ryanlewis/typestrings/internal/debug"
	"github.com/ryanlewis/typestrings/internal/glyphs"
	"github.com/ryanlewis/typestrings/internal/measure"
	"github.com/ryanlewis/typestrings/internal/selection"
	"github.com/ryanlewis/typestrings/internal/textprep"
)

// Font represents an immutable loaded font that can be safely shared across
// goroutines.
//
// Glyphs are identified by name. Advance widths and kerning values are in
// font design units.
type Font struct {
	// Name is the font's display name (e.g., "Sample Regular")
	Name string

	// Format is the source format, "ufo" or "opentype"
	Format string

	// UnitsPerEm is the size of the design grid
	UnitsPerEm int

	// data holds repertoire, advances and kerning (unexported for immutability)
	data *glyphs.Font
}

// Duplicate records a codepoint claimed by more than one glyph. The first
// glyph registered keeps it.
type Duplicate = glyphs.Duplicate

// Rule measures every literal occurrence of Pattern as the single glyph Glyph.
type Rule = glyphs.Rule

// Rules is an ordered substitution ruleset; earlier rules win overlaps.
type Rules = glyphs.Rules

// Entry is a selected word or sequence with its advance width.
type Entry = selection.Entry

// Case selects the case mapping applied to the input text.
type Case = textprep.Case

// Case mappings
const (
	CaseNone  = textprep.CaseNone
	CaseLower = textprep.CaseLower
	CaseUpper = textprep.CaseUpper
	CaseTitle = textprep.CaseTitle
)

// ParseCase parses "none", "lower", "upper" or "title".
func ParseCase(s string) (Case, error) {
	return textprep.ParseCase(s)
}

func newFont(data *glyphs.Font) *Font {
	return &Font{
		Name:       data.Name,
		Format:     data.Format,
		UnitsPerEm: data.UnitsPerEm,
		data:       data,
	}
}

// Glyph returns the name of the glyph mapped to r, or false if the font
// cannot render r.
func (f *Font) Glyph(r rune) (string, bool) {
	if f == nil {
		return "", false
	}
	return f.data.Repertoire().Lookup(r)
}

// Advance returns the advance width of the named glyph.
func (f *Font) Advance(glyph string) (int, bool) {
	if f == nil {
		return 0, false
	}
	return f.data.Advance(glyph)
}

// Kern returns the kerning between two glyphs; absent pairs report false.
func (f *Font) Kern(left, right string) (int, bool) {
	if f == nil {
		return 0, false
	}
	return f.data.Kern(left, right)
}

// NumGlyphs returns the number of glyphs, encoded or not.
func (f *Font) NumGlyphs() int {
	if f == nil {
		return 0
	}
	return f.data.NumGlyphs()
}

// Codepoints returns every character the font maps, in ascending order.
func (f *Font) Codepoints() []rune {
	if f == nil {
		return nil
	}
	return f.data.Repertoire().Runes()
}

// Duplicates lists codepoint claims ignored while loading the font.
func (f *Font) Duplicates() []Duplicate {
	if f == nil {
		return nil
	}
	return f.data.Duplicates
}

// Width returns the advance width of text, applying rules whose glyph
// exists in the font. Characters without a glyph count as zero.
func (f *Font) Width(text string, rules Rules) int {
	if f == nil {
		return 0
	}
	valid, _ := rules.Validate(f.data)
	return measure.New(f.data, valid).Width(text)
}

// Common errors returned by the typestrings package
var (
	// ErrUnknownFont is returned when the font is nil
	ErrUnknownFont = common.ErrUnknownFont

	// ErrBadFontFormat is returned when font data cannot be loaded
	ErrBadFontFormat = common.ErrBadFontFormat

	// ErrMissingInput is returned when input text or font are not supplied
	ErrMissingInput = common.ErrMissingInput

	// ErrInvalidBounds is returned when the min width is not below the max width
	ErrInvalidBounds = common.ErrInvalidBounds

	// ErrSequenceNeedsMax is returned when sequence mode is requested without a max width
	ErrSequenceNeedsMax = common.ErrSequenceNeedsMax

	// ErrUnmappedGlyph marks characters skipped because the font has no glyph for them
	ErrUnmappedGlyph = common.ErrUnmappedGlyph
)

// WithMaxWidth sets the exclusive upper width bound. Without it single-word
// mode keeps every word; sequence mode requires it.
func WithMaxWidth(width int) Option {
	return func(opts *options) {
		opts.maxWidth = &width
	}
}

// WithMinWidth sets the exclusive lower width bound. Sequence mode defaults
// to zero.
func WithMinWidth(width int) Option {
	return func(opts *options) {
		opts.minWidth = &width
	}
}

// WithMaxResults limits the result to the n widest entries. Zero or
// negative means no limit.
func WithMaxResults(n int) Option {
	return func(opts *options) {
		opts.maxResults = n
	}
}

// WithSequences selects sequence mode: candidates are runs of consecutive
// input words joined by single spaces, measured as a whole.
func WithSequences(on bool) Option {
	return func(opts *options) {
		opts.sequences = on
	}
}

// WithNgrams keeps only results containing at least one of the given
// substrings. Empty strings are ignored.
func WithNgrams(ngrams ...string) Option {
	return func(opts *options) {
		for _, g := range ngrams {
			if g != "" {
				opts.ngrams = append(opts.ngrams, g)
			}
		}
	}
}

// WithForcedCharset restricts candidates to words spelled only with the
// characters of charset, in addition to the font's repertoire.
func WithForcedCharset(charset string) Option {
	return func(opts *options) {
		opts.forced = &charset
	}
}

// WithRules measures each pattern occurrence as its replacement glyph.
// Rules whose glyph is missing from the font are dropped and reported in
// Stats.DroppedRules.
func WithRules(rules Rules) Option {
	return func(opts *options) {
		opts.rules = rules
	}
}

// WithPunctuationFilter removes Unicode punctuation from the input before
// splitting it into words.
func WithPunctuationFilter(on bool) Option {
	return func(opts *options) {
		opts.text.FilterPunctuation = on
	}
}

// WithNumberFilter removes decimal digits from the input.
func WithNumberFilter(on bool) Option {
	return func(opts *options) {
		opts.text.FilterNumbers = on
	}
}

// WithComposition normalises the input to NFC before filtering, so
// decomposed accents match precomposed font glyphs.
func WithComposition(on bool) Option {
	return func(opts *options) {
		opts.text.Compose = on
	}
}

// WithCase maps the input to the given case after filtering.
func WithCase(c Case) Option {
	return func(opts *options) {
		opts.text.Case = c
	}
}

// WithWorkers measures single words on n goroutines. Sequence mode always
// measures on the calling goroutine since each candidate extends the last.
func WithWorkers(n int) Option {
	return func(opts *options) {
		opts.workers = n
	}
}

// WithDebug attaches a debug session to the selection run.
// The session parameter should be a *debug.Session from internal/debug.
// Other values are ignored.
func WithDebug(session interface{}) Option {
	return func(opts *options) {
		if s, ok := session.(*debug.Session); ok {
			opts.debug = s
		}
	}
}

// WithProgress reports pipeline progress. fn is called from the goroutine
// running Select.
func WithProgress(fn ProgressFunc) Option {
	return func(opts *options) {
		opts.progress = fn
	}
}
