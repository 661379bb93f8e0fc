package measure

import (
	"sync"
	"unicode/utf8"
)

const (
	// defaultTextLen covers most words and short sequences
	defaultTextLen = 64

	// Buffer retention threshold - buffers larger than this are released
	// to prevent memory bloat in the pool from occasional long sequences
	maxRetainTextLen = 4096
)

// measureStatePool manages scratch buffers so measuring many words does not
// allocate per call. The Evaluator is safe for concurrent use because each
// call owns its state for the duration of the measurement.
var measureStatePool = sync.Pool{
	New: func() interface{} {
		return &measureState{
			runes:   make([]rune, 0, defaultTextLen),
			covers:  make([]cover, 0, defaultTextLen),
			missing: make([]rune, 0, 4),
		}
	},
}

// acquireMeasureState gets a state from the pool, sized for text.
func acquireMeasureState(text string) *measureState {
	state := measureStatePool.Get().(*measureState)
	n := utf8.RuneCountInString(text)
	if cap(state.runes) < n {
		state.runes = make([]rune, 0, n)
	}
	if cap(state.covers) < n {
		state.covers = make([]cover, 0, n)
	}
	state.runes = state.runes[:0]
	for _, r := range text {
		state.runes = append(state.runes, r)
	}
	state.covers = state.covers[:n]
	for i := range state.covers {
		state.covers[i] = uncovered
	}
	state.missing = state.missing[:0]
	return state
}

// releaseMeasureState returns a state to the pool unless its buffers grew too large.
func releaseMeasureState(state *measureState) {
	if state == nil {
		return
	}
	if cap(state.runes) > maxRetainTextLen || cap(state.covers) > maxRetainTextLen {
		return
	}
	measureStatePool.Put(state)
}
