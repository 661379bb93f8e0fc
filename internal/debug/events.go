package debug

// FontLoadedData describes a font after loading.
type FontLoadedData struct {
	Name         string   `json:"name"`
	Format       string   `json:"format"`
	UnitsPerEm   int      `json:"units_per_em"`
	Glyphs       int      `json:"glyphs"`
	Codepoints   int      `json:"codepoints"`
	KerningPairs int      `json:"kerning_pairs"`
	Duplicates   []string `json:"duplicates,omitempty"`
}

// RulesData describes the substitution rules in effect.
type RulesData struct {
	Rules    int      `json:"rules"`
	Dropped  []string `json:"dropped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// SelectStartData contains information about the start of a selection run.
type SelectStartData struct {
	Mode       string   `json:"mode"` // "words" or "sequences"
	Words      int      `json:"words"`
	Bounds     string   `json:"bounds"`
	MaxResults int      `json:"max_results"`
	Ngrams     []string `json:"ngrams,omitempty"`
	Workers    int      `json:"workers"`
}

// FilterData summarises glyph-availability filtering.
type FilterData struct {
	Unique   int    `json:"unique"`
	Valid    int    `json:"valid"`
	Rejected int    `json:"rejected"`
	Missing  string `json:"missing,omitempty"`
}

// MeasureData contains the width evaluation of one word or sequence.
type MeasureData struct {
	Text        string `json:"text"`
	Width       int    `json:"width"`
	Missing     string `json:"missing,omitempty"`
	Substituted int    `json:"substituted,omitempty"`
}

// CandidateData records a width-bounds decision for one candidate.
type CandidateData struct {
	Text   string `json:"text"`
	Width  int    `json:"width"`
	Start  int    `json:"start,omitempty"`
	Length int    `json:"length,omitempty"`
	Reason string `json:"reason"` // see ClassifyWidth
}

// SelectEndData contains information about the end of a selection run.
type SelectEndData struct {
	Matches   int   `json:"matches"`
	Returned  int   `json:"returned"`
	MinWidth  int   `json:"min_width"`
	MaxWidth  int   `json:"max_width"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// SessionEndData closes a session. Events counts the events emitted before it.
type SessionEndData struct {
	Events    uint64 `json:"events"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
