// Package debug traces typestrings selection runs.
//
// A run is traced only when debug mode is on (TYPESTRINGS_DEBUG=1 or
// --debug); otherwise NewSession returns nil and a nil *Session drops every
// event. Events are JSON Lines by default, with a pretty format for reading.
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// Environment variables recognised by InitFromEnv and PrettyFromEnv.
const (
	EnvDebug       = "TYPESTRINGS_DEBUG"
	EnvDebugPretty = "TYPESTRINGS_DEBUG_PRETTY"
)

var enabled atomic.Bool

// SetEnabled switches debug mode for the process.
func SetEnabled(on bool) { enabled.Store(on) }

// Enabled reports whether debug mode is on.
func Enabled() bool { return enabled.Load() }

// InitFromEnv turns debug mode on when TYPESTRINGS_DEBUG=1.
func InitFromEnv() {
	if os.Getenv(EnvDebug) == "1" {
		SetEnabled(true)
	}
}

// PrettyFromEnv reports whether TYPESTRINGS_DEBUG_PRETTY=1.
func PrettyFromEnv() bool {
	return os.Getenv(EnvDebugPretty) == "1"
}

// Session traces one selection run. Measuring workers emit concurrently, so
// lines may reach the sink slightly out of Seq order.
type Session struct {
	id    string
	sink  Sink
	start time.Time
	seq   atomic.Uint64
}

// NewSession starts a session on sink, or returns nil when debug mode is off.
func NewSession(sink Sink) *Session {
	if !Enabled() || sink == nil {
		return nil
	}
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	s := &Session{id: hex.EncodeToString(b), sink: sink, start: time.Now()}
	s.Emit("session", "Start", nil)
	return s
}

// Emit sends an event to the sink. Sink errors are dropped so tracing never
// fails a run.
func (s *Session) Emit(phase, event string, data interface{}) {
	if s == nil {
		return
	}
	_ = s.sink.Write(Event{
		Seq:       s.seq.Add(1),
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.id,
		Phase:     phase,
		Event:     event,
		Data:      data,
	})
}

// Close emits the session summary and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Emit("session", "End", SessionEndData{
		Events:    s.seq.Load(),
		ElapsedMs: time.Since(s.start).Milliseconds(),
	})
	return s.sink.Close()
}

// Event is the envelope written for every trace point.
type Event struct {
	Seq       uint64      `json:"seq"`
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
}
