package selection

import (
	"github.com/ryanlewis/typestrings/internal/common"
	"github.com/ryanlewis/typestrings/internal/debug"
)

// Bounds holds the exclusive width range a candidate must fall into.
type Bounds struct {
	Min    int
	Max    int
	HasMin bool
	HasMax bool
}

// Validate checks the bounds before any processing. Sequence mode needs
// an upper bound to stop growing candidates.
func (b Bounds) Validate(sequence bool) error {
	if sequence && !b.HasMax {
		return common.ErrSequenceNeedsMax
	}
	if b.HasMin && b.HasMax && b.Min >= b.Max {
		return common.ErrInvalidBounds
	}
	return nil
}

// Admits reports whether width lies strictly inside the set bounds.
func (b Bounds) Admits(width int) bool {
	if b.HasMax && width >= b.Max {
		return false
	}
	if b.HasMin && width <= b.Min {
		return false
	}
	return true
}

// sequenceBounds applies the default lower bound of sequence mode.
func (b Bounds) sequenceBounds() Bounds {
	if !b.HasMin {
		b.Min, b.HasMin = common.DefaultMinWidth, true
	}
	return b
}

func (b Bounds) classify(width int) string {
	return debug.ClassifyWidth(width, b.Min, b.Max, b.HasMin, b.HasMax)
}

func (b Bounds) String() string {
	return debug.FormatBounds(b.Min, b.Max, b.HasMin, b.HasMax)
}
