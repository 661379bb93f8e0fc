// Package common provides shared constants and errors for internal packages.
// These errors are re-exported by the public API in the typestrings package.
package common

import "errors"

// Defaults shared by the pipeline and the CLI
const (
	// DefaultMinWidth is the lower width bound used in sequence mode when none is given
	DefaultMinWidth = 0
	// DefaultWorkers measures words on the calling goroutine
	DefaultWorkers = 1
	// MaxWorkers caps the measuring fan-out
	MaxWorkers = 64
)

// Common errors (must match public API in typestrings package)
var (
	// ErrUnknownFont is returned when font is nil
	ErrUnknownFont = errors.New("unknown font")
	// ErrBadFontFormat is returned when font data cannot be loaded
	ErrBadFontFormat = errors.New("bad font format")
	// ErrMissingInput is returned when a required input is not supplied
	ErrMissingInput = errors.New("missing required input")
	// ErrInvalidBounds is returned when min-width is not below max-width
	ErrInvalidBounds = errors.New("min-width must be smaller than max-width")
	// ErrSequenceNeedsMax is returned when sequence mode is requested without a max width
	ErrSequenceNeedsMax = errors.New("sequence mode requires a max width")
	// ErrUnmappedGlyph marks a character without a glyph in the font
	ErrUnmappedGlyph = errors.New("unmapped glyph")
)
