package debug

import "fmt"

// Width classifications reported in CandidateData.Reason.
const (
	ReasonInRange   = "in-range"
	ReasonBelowMin  = "at-or-below-min"
	ReasonAtOrAbove = "at-or-above-max"
)

// ClassifyWidth names where width falls relative to the exclusive bounds
// (min, max). Unset bounds never reject.
func ClassifyWidth(width, min, max int, hasMin, hasMax bool) string {
	switch {
	case hasMax && width >= max:
		return ReasonAtOrAbove
	case hasMin && width <= min:
		return ReasonBelowMin
	default:
		return ReasonInRange
	}
}

// FormatBounds renders exclusive width bounds for logs, e.g. "(100, 900)",
// "(100, ∞)" or "(-∞, 900)".
func FormatBounds(min, max int, hasMin, hasMax bool) string {
	lo, hi := "-∞", "∞"
	if hasMin {
		lo = fmt.Sprint(min)
	}
	if hasMax {
		hi = fmt.Sprint(max)
	}
	return fmt.Sprintf("(%s, %s)", lo, hi)
}

// FormatRunes lists runes for display, e.g. "'é' (U+00E9), '→' (U+2192)".
func FormatRunes(rs []rune) string {
	out := ""
	for i, r := range rs {
		if i > 0 {
			out += ", "
		}
		out += runeStr(r)
	}
	return out
}
