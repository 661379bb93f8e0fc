package typestrings

import (
	"sync"
	"time"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/ryanlewis/typestrings/internal/common"
	"github.com/ryanlewis/typestrings/internal/debug"
	"github.com/ryanlewis/typestrings/internal/measure"
	"github.com/ryanlewis/typestrings/internal/selection"
	"github.com/ryanlewis/typestrings/internal/textprep"
)

// Stage identifies a step of the selection pipeline for progress reporting.
type Stage int

// Pipeline stages, in order
const (
	StageReading Stage = iota
	StageGlyphs
	StageWords
	StageWidths
	StageMatches
)

var stageTitles = [...]string{
	StageReading: "Reading input",
	StageGlyphs:  "Scanning font glyphs",
	StageWords:   "Scanning for words",
	StageWidths:  "Calculating word widths",
	StageMatches: "Finding matches",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageTitles) {
		return "Unknown stage"
	}
	return stageTitles[s]
}

// ProgressFunc receives pipeline progress. done and total count the work
// of the current stage; stages without measurable work report 1 of 1.
type ProgressFunc func(stage Stage, done, total int)

// Option configures a selection run.
type Option func(*options)

type options struct {
	maxWidth   *int
	minWidth   *int
	maxResults int
	sequences  bool
	ngrams     []string
	forced     *string
	rules      Rules
	text       textprep.Options
	workers    int
	debug      *debug.Session
	progress   ProgressFunc
}

func defaultOptions() *options {
	return &options{workers: common.DefaultWorkers}
}

func (o *options) bounds() selection.Bounds {
	var b selection.Bounds
	if o.maxWidth != nil {
		b.Max, b.HasMax = *o.maxWidth, true
	}
	if o.minWidth != nil {
		b.Min, b.HasMin = *o.minWidth, true
	}
	return b
}

func (o *options) report(stage Stage, done, total int) {
	if o.progress != nil {
		o.progress(stage, done, total)
	}
}

// Result is the outcome of a selection run.
type Result struct {
	// Entries are the selected strings, widest first
	Entries []Entry
	// Stats summarises the run for verbose reporting
	Stats Stats
}

// Strings returns the selected texts in order.
func (r *Result) Strings() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Text
	}
	return out
}

// Stats carries the counts and recovered conditions of a selection run.
type Stats struct {
	// InputWords counts words in the prepared input
	InputWords int
	// UniqueWords counts distinct input words
	UniqueWords int
	// ValidWords counts input words the font (and forced charset) can render
	ValidWords int
	// RejectedWords lists distinct unrenderable words, sorted
	RejectedWords []string
	// MissingChars lists the characters that caused rejections, sorted
	MissingChars []rune
	// UnmappedChars lists characters skipped while measuring, sorted. Only
	// sequence mode can hit these, through the joining space.
	UnmappedChars []rune
	// DroppedRules lists rules whose replacement glyph is not in the font
	DroppedRules Rules
	// FontGlyphs is the number of glyphs in the font
	FontGlyphs int
	// Matches counts entries inside the bounds before n-gram filtering and truncation
	Matches int
	// MinWidth and MaxWidth span the returned entries; zero when empty
	MinWidth int
	MaxWidth int
	// Elapsed is the wall time of the run
	Elapsed time.Duration
}

// ValidateOptions reports the configuration errors Select would return for
// opts (ErrInvalidBounds, ErrSequenceNeedsMax) without touching any input.
func ValidateOptions(opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o.bounds().Validate(o.sequences)
}

// Select runs the selection pipeline over text: prepare and split the input,
// keep the words the font can render, measure them (or their sequences) and
// return those inside the width bounds, widest first.
//
// Configuration errors (ErrInvalidBounds, ErrSequenceNeedsMax) are returned
// before any processing. Unrenderable words, unmapped characters and dropped
// rules are recovered and reported in Stats. An empty result is not an error.
func Select(text string, f *Font, opts ...Option) (*Result, error) {
	if f == nil {
		return nil, ErrUnknownFont
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	b := o.bounds()
	if err := b.Validate(o.sequences); err != nil {
		return nil, err
	}
	start := time.Now()
	session := o.debug

	o.report(StageReading, 0, 1)
	words := textprep.Words(text, o.text)
	o.report(StageReading, 1, 1)

	o.report(StageGlyphs, 0, 1)
	rules, dropped := o.rules.Validate(f.data)
	emitFont(session, f)
	session.Emit("select", "Rules", debug.RulesData{Rules: len(rules), Dropped: ruleStrings(dropped)})
	o.report(StageGlyphs, 1, 1)

	o.report(StageWords, 0, 1)
	var forced selection.Charset
	if o.forced != nil {
		forced = selection.NewRuneSet(*o.forced)
	}
	unique := selection.Dedupe(words)
	filtered := selection.Filter(words, f.data.Repertoire(), forced)
	candidates := filtered.Valid
	if !o.sequences {
		candidates = selection.Dedupe(candidates)
	}
	session.Emit("select", "Filter", debug.FilterData{
		Unique:   len(unique),
		Valid:    len(filtered.Valid),
		Rejected: len(filtered.Rejected),
		Missing:  string(filtered.Missing),
	})
	o.report(StageWords, 1, 1)

	mode := "words"
	if o.sequences {
		mode = "sequences"
	}
	session.Emit("select", "Start", debug.SelectStartData{
		Mode:       mode,
		Words:      len(candidates),
		Bounds:     b.String(),
		MaxResults: o.maxResults,
		Ngrams:     o.ngrams,
		Workers:    o.workers,
	})

	ev := measure.New(f.data, rules, measure.WithDebug(session))
	unmapped := newRuneCollector()
	width := func(s string) int {
		m := ev.Measure(s)
		unmapped.add(m.Missing)
		return m.Width
	}
	selOpts := []selection.Option{
		selection.WithWorkers(o.workers),
		selection.WithDebug(session),
		selection.WithProgress(func(done, total int) {
			o.report(StageWidths, done, total)
		}),
	}

	var entries []Entry
	if o.sequences {
		var err error
		entries, err = selection.RankSequences(candidates, width, b, selOpts...)
		if err != nil {
			return nil, err
		}
	} else {
		entries = selection.Rank(candidates, width, b, selOpts...)
	}

	o.report(StageMatches, 0, 1)
	matches := len(entries)
	entries = selection.FilterNgrams(entries, o.ngrams)
	entries = selection.Truncate(entries, o.maxResults)
	o.report(StageMatches, 1, 1)

	stats := Stats{
		InputWords:    len(words),
		UniqueWords:   len(unique),
		ValidWords:    len(filtered.Valid),
		RejectedWords: filtered.Rejected,
		MissingChars:  filtered.Missing,
		UnmappedChars: unmapped.runes(),
		DroppedRules:  dropped,
		FontGlyphs:    f.NumGlyphs(),
		Matches:       matches,
		Elapsed:       time.Since(start),
	}
	if len(entries) > 0 {
		// entries are sorted widest first
		stats.MaxWidth = entries[0].Width
		stats.MinWidth = entries[len(entries)-1].Width
	}

	session.Emit("select", "End", debug.SelectEndData{
		Matches:   matches,
		Returned:  len(entries),
		MinWidth:  stats.MinWidth,
		MaxWidth:  stats.MaxWidth,
		ElapsedMs: stats.Elapsed.Milliseconds(),
	})

	return &Result{Entries: entries, Stats: stats}, nil
}

func emitFont(session *debug.Session, f *Font) {
	if session == nil {
		return
	}
	data := debug.FontLoadedData{
		Name:       f.Name,
		Format:     f.Format,
		UnitsPerEm: f.UnitsPerEm,
		Glyphs:     f.NumGlyphs(),
		Codepoints: f.data.Repertoire().Len(),
	}
	if k, ok := f.data.Kerning().(interface{ Len() int }); ok {
		data.KerningPairs = k.Len()
	}
	for _, d := range f.Duplicates() {
		data.Duplicates = append(data.Duplicates, d.String())
	}
	session.Emit("font", "Loaded", data)
}

func ruleStrings(rules Rules) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Pattern+":"+r.Glyph)
	}
	return out
}

// runeCollector gathers unmapped characters from concurrent measurements.
type runeCollector struct {
	mu  sync.Mutex
	set *treeset.Set
}

func newRuneCollector() *runeCollector {
	return &runeCollector{set: treeset.NewWith(utils.RuneComparator)}
}

func (c *runeCollector) add(rs []rune) {
	if len(rs) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range rs {
		c.set.Add(r)
	}
}

func (c *runeCollector) runes() []rune {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []rune
	for _, v := range c.set.Values() {
		out = append(out, v.(rune))
	}
	return out
}

// FormatRunes lists characters for reports, e.g. "'é' (U+00E9), '→' (U+2192)".
func FormatRunes(rs []rune) string {
	return debug.FormatRunes(rs)
}
