// Package textprep turns raw sample text into the word list the selection
// pipeline consumes.
package textprep

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Case selects the case mapping applied to the input.
type Case int

const (
	// CaseNone keeps the input as written
	CaseNone Case = iota
	// CaseLower maps to lower case
	CaseLower
	// CaseUpper maps to upper case
	CaseUpper
	// CaseTitle upper-cases the first letter of each word
	CaseTitle
)

var caseNames = map[string]Case{
	"none":  CaseNone,
	"lower": CaseLower,
	"upper": CaseUpper,
	"title": CaseTitle,
}

// ParseCase parses a case name as accepted by the --case flag.
func ParseCase(s string) (Case, error) {
	if s == "" {
		return CaseNone, nil
	}
	c, ok := caseNames[strings.ToLower(s)]
	if !ok {
		return CaseNone, fmt.Errorf("unknown case %q (want none, lower, upper or title)", s)
	}
	return c, nil
}

func (c Case) String() string {
	for name, v := range caseNames {
		if v == c {
			return name
		}
	}
	return fmt.Sprintf("Case(%d)", int(c))
}

// Options controls text preparation.
type Options struct {
	// FilterPunctuation removes Unicode punctuation (category P)
	FilterPunctuation bool
	// FilterNumbers removes decimal digits (category Nd)
	FilterNumbers bool
	// Case is applied after filtering
	Case Case
	// Compose normalises the input to NFC first. Off by default: a font with
	// a base letter and a combining mark but no precomposed glyph can only
	// render the decomposed spelling.
	Compose bool
}

// Prepare applies the optional NFC composition, the filters and the case
// mapping, in that order.
func Prepare(text string, opts Options) string {
	var ts []transform.Transformer
	if opts.Compose {
		ts = append(ts, norm.NFC)
	}
	if opts.FilterPunctuation {
		ts = append(ts, runes.Remove(runes.In(unicode.P)))
	}
	if opts.FilterNumbers {
		ts = append(ts, runes.Remove(runes.In(unicode.Nd)))
	}
	switch opts.Case {
	case CaseLower:
		ts = append(ts, cases.Lower(language.Und))
	case CaseUpper:
		ts = append(ts, cases.Upper(language.Und))
	case CaseTitle:
		ts = append(ts, cases.Title(language.Und))
	}

	if len(ts) == 0 {
		return text
	}
	out, _, err := transform.String(transform.Chain(ts...), text)
	if err != nil {
		// transformers above only fail on invalid UTF-8; keep the input
		return text
	}
	return out
}

// Words prepares text and splits it on Unicode white space.
func Words(text string, opts Options) []string {
	return strings.Fields(Prepare(text, opts))
}
