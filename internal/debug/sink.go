package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Sink is the interface for debug output destinations.
// Implementations must be safe for concurrent Write calls.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	mu      sync.Mutex
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Format: [timestamp] [phase/event]
	fmt.Fprintf(s.w, "#%d [%s] [%s/%s] session=%s\n", event.Seq, event.Timestamp, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case FontLoadedData:
		s.writeFontLoaded(d)
	case RulesData:
		s.writeRules(d)
	case SelectStartData:
		s.writeSelectStart(d)
	case FilterData:
		s.writeFilter(d)
	case MeasureData:
		s.writeMeasure(d)
	case CandidateData:
		s.writeCandidate(d)
	case SelectEndData:
		s.writeSelectEnd(d)
	case ErrorData:
		fmt.Fprintf(s.w, "  %s: %s\n", d.Type, d.Message)
		s.writeMap(d.Context)
	case SessionEndData:
		fmt.Fprintf(s.w, "  events: %d, elapsed_ms: %d\n", d.Events, d.ElapsedMs)
	case nil:
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeFontLoaded(d FontLoadedData) {
	fmt.Fprintf(s.w, "  font: %q (%s), upem: %d\n", d.Name, d.Format, d.UnitsPerEm)
	fmt.Fprintf(s.w, "  glyphs: %d, codepoints: %d, kerning_pairs: %d\n", d.Glyphs, d.Codepoints, d.KerningPairs)
	for _, dup := range d.Duplicates {
		fmt.Fprintf(s.w, "  duplicate: %s\n", dup)
	}
}

func (s *PrettySink) writeRules(d RulesData) {
	fmt.Fprintf(s.w, "  rules: %d\n", d.Rules)
	if len(d.Dropped) > 0 {
		fmt.Fprintf(s.w, "  dropped: %s\n", strings.Join(d.Dropped, ", "))
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(s.w, "  warning: %s\n", w)
	}
}

func (s *PrettySink) writeSelectStart(d SelectStartData) {
	fmt.Fprintf(s.w, "  mode: %s, words: %d, workers: %d\n", d.Mode, d.Words, d.Workers)
	fmt.Fprintf(s.w, "  bounds: %s, max_results: %d\n", d.Bounds, d.MaxResults)
	if len(d.Ngrams) > 0 {
		fmt.Fprintf(s.w, "  ngrams: %s\n", strings.Join(d.Ngrams, " "))
	}
}

func (s *PrettySink) writeFilter(d FilterData) {
	fmt.Fprintf(s.w, "  unique: %d, valid: %d, rejected: %d\n", d.Unique, d.Valid, d.Rejected)
	if d.Missing != "" {
		fmt.Fprintf(s.w, "  missing: %s\n", FormatRunes([]rune(d.Missing)))
	}
}

func (s *PrettySink) writeMeasure(d MeasureData) {
	fmt.Fprintf(s.w, "  text: %q, width: %d\n", d.Text, d.Width)
	if d.Substituted > 0 {
		fmt.Fprintf(s.w, "  substituted: %d\n", d.Substituted)
	}
	if d.Missing != "" {
		fmt.Fprintf(s.w, "  missing: %s\n", FormatRunes([]rune(d.Missing)))
	}
}

func (s *PrettySink) writeCandidate(d CandidateData) {
	fmt.Fprintf(s.w, "  text: %q, width: %d → %s\n", d.Text, d.Width, d.Reason)
	if d.Length > 0 {
		fmt.Fprintf(s.w, "  start: %d, length: %d\n", d.Start, d.Length)
	}
}

func (s *PrettySink) writeSelectEnd(d SelectEndData) {
	fmt.Fprintf(s.w, "  matches: %d, returned: %d\n", d.Matches, d.Returned)
	fmt.Fprintf(s.w, "  widths: %d..%d, elapsed_ms: %d\n", d.MinWidth, d.MaxWidth, d.ElapsedMs)
}

func (s *PrettySink) writeMap(d map[string]interface{}) {
	for k, v := range d {
		fmt.Fprintf(s.w, "  %s: %v\n", k, v)
	}
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

// runeStr formats a rune for display: 'X' (U+0058) or NUL for 0.
func runeStr(r rune) string {
	if r == 0 {
		return "NUL"
	}
	if r < 32 || r == 127 {
		return fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("'%c' (U+%04X)", r, r)
}
