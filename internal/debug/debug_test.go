package debug

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeEvents parses JSON Lines sink output.
func decodeEvents(t *testing.T, out string) []Event {
	t.Helper()
	var events []Event
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var evt Event
		require.NoError(t, json.Unmarshal([]byte(line), &evt), line)
		events = append(events, evt)
	}
	return events
}

func TestSessionDisabled(t *testing.T) {
	SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	assert.Nil(t, session)

	session.Emit("measure", "Word", MeasureData{Text: "tea", Width: 1335})
	assert.NoError(t, session.Close())
	assert.Zero(t, buf.Len())
}

func TestSessionLifecycle(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	require.NotNil(t, session)

	session.Emit("measure", "Word", MeasureData{Text: "tea", Width: 1335})
	require.NoError(t, session.Close())

	events := decodeEvents(t, buf.String())
	require.Len(t, events, 3)

	assert.Equal(t, "session/Start", events[0].Phase+"/"+events[0].Event)
	assert.Nil(t, events[0].Data)
	assert.Equal(t, "measure/Word", events[1].Phase+"/"+events[1].Event)
	assert.Equal(t, "session/End", events[2].Phase+"/"+events[2].Event)

	for i, evt := range events {
		assert.Equal(t, uint64(i+1), evt.Seq)
		assert.Len(t, evt.SessionID, 8)
		assert.Equal(t, events[0].SessionID, evt.SessionID)
	}

	end, ok := events[2].Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, end["events"])
}

func TestSessionConcurrentEmit(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	require.NotNil(t, session)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				session.Emit("measure", "Word", MeasureData{Text: "boo", Width: 1600})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, session.Close())

	events := decodeEvents(t, buf.String())
	require.Len(t, events, 102)
	seen := make(map[uint64]bool)
	for _, evt := range events {
		assert.False(t, seen[evt.Seq], "duplicate seq %d", evt.Seq)
		seen[evt.Seq] = true
	}
}

func TestInitFromEnv(t *testing.T) {
	defer SetEnabled(false)

	SetEnabled(false)
	t.Setenv(EnvDebug, "0")
	InitFromEnv()
	assert.False(t, Enabled())

	t.Setenv(EnvDebug, "1")
	InitFromEnv()
	assert.True(t, Enabled())

	t.Setenv(EnvDebugPretty, "1")
	assert.True(t, PrettyFromEnv())
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	require.NoError(t, sink.Write(Event{
		Seq:       7,
		Timestamp: "2025-01-01T00:00:00Z",
		SessionID: "abc123",
		Phase:     "select",
		Event:     "Filter",
		Data:      FilterData{Unique: 7, Valid: 6, Rejected: 1, Missing: "u"},
	}))
	require.NoError(t, sink.Flush())

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.EqualValues(t, 7, parsed["seq"])
	assert.Equal(t, "Filter", parsed["event"])
	data := parsed["data"].(map[string]interface{})
	assert.EqualValues(t, 6, data["valid"])
	assert.Equal(t, "u", data["missing"])
}

func TestPrettySinkSessionEnd(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPrettySink(&buf)

	require.NoError(t, sink.Write(Event{Seq: 1, Phase: "session", Event: "Start"}))
	require.NoError(t, sink.Write(Event{Seq: 2, Phase: "session", Event: "End", Data: SessionEndData{Events: 1, ElapsedMs: 3}}))
	require.NoError(t, sink.Flush())

	out := buf.String()
	assert.Contains(t, out, "#1 ")
	assert.NotContains(t, out, "data:")
	assert.Contains(t, out, "events: 1, elapsed_ms: 3")
}

func TestPrettySink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPrettySink(&buf)

	event := Event{
		Timestamp: "2025-01-01T00:00:00Z",
		SessionID: "abc123",
		Phase:     "measure",
		Event:     "Word",
		Data: MeasureData{
			Text:        "office|",
			Width:       1840,
			Missing:     "|",
			Substituted: 1,
		},
	}

	if err := sink.Write(event); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "'|' (U+007C)") {
		t.Errorf("Pretty output should show rune with code, got: %s", output)
	}
	if !strings.Contains(output, "width: 1840") {
		t.Errorf("Pretty output should show width, got: %s", output)
	}
	if !strings.Contains(output, "substituted: 1") {
		t.Errorf("Pretty output should show substitution count, got: %s", output)
	}
}

func TestPrettySinkCandidate(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPrettySink(&buf)

	_ = sink.Write(Event{
		Phase: "select",
		Event: "Candidate",
		Data:  CandidateData{Text: "the cat", Width: 950, Start: 3, Length: 2, Reason: ReasonAtOrAbove},
	})
	_ = sink.Flush()

	output := buf.String()
	if !strings.Contains(output, ReasonAtOrAbove) {
		t.Errorf("Pretty output should show reason, got: %s", output)
	}
	if !strings.Contains(output, "start: 3, length: 2") {
		t.Errorf("Pretty output should show sequence position, got: %s", output)
	}
}

func TestClassifyWidth(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		min    int
		max    int
		hasMin bool
		hasMax bool
		want   string
	}{
		{"no bounds", 500, 0, 0, false, false, ReasonInRange},
		{"below max", 499, 0, 500, false, true, ReasonInRange},
		{"equal to max", 500, 0, 500, false, true, ReasonAtOrAbove},
		{"above max", 501, 0, 500, false, true, ReasonAtOrAbove},
		{"equal to min", 100, 100, 500, true, true, ReasonBelowMin},
		{"just above min", 101, 100, 500, true, true, ReasonInRange},
		{"zero min excludes zero", 0, 0, 500, true, true, ReasonBelowMin},
		{"min only", 1000, 100, 0, true, false, ReasonInRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyWidth(tt.width, tt.min, tt.max, tt.hasMin, tt.hasMax)
			if got != tt.want {
				t.Errorf("ClassifyWidth(%d, %d, %d, %v, %v) = %v, want %v",
					tt.width, tt.min, tt.max, tt.hasMin, tt.hasMax, got, tt.want)
			}
		})
	}
}

func TestFormatBounds(t *testing.T) {
	tests := []struct {
		min, max       int
		hasMin, hasMax bool
		want           string
	}{
		{100, 900, true, true, "(100, 900)"},
		{100, 0, true, false, "(100, ∞)"},
		{0, 900, false, true, "(-∞, 900)"},
		{0, 0, false, false, "(-∞, ∞)"},
	}

	for _, tt := range tests {
		if got := FormatBounds(tt.min, tt.max, tt.hasMin, tt.hasMax); got != tt.want {
			t.Errorf("FormatBounds(%d, %d, %v, %v) = %q, want %q", tt.min, tt.max, tt.hasMin, tt.hasMax, got, tt.want)
		}
	}
}

func TestFormatRunes(t *testing.T) {
	got := FormatRunes([]rune{'é', '\t'})
	want := "'é' (U+00E9), U+0009"
	if got != want {
		t.Errorf("FormatRunes() = %q, want %q", got, want)
	}
}

func TestNilSessionSafety(t *testing.T) {
	var session *Session

	assert.NotPanics(t, func() {
		session.Emit("select", "Start", SelectStartData{Mode: "words"})
	})
	assert.NoError(t, session.Close())
}

// BenchmarkEmitDisabled verifies a nil session costs nothing.
func BenchmarkEmitDisabled(b *testing.B) {
	SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("measure", "Word", nil)
	}

	if buf.Len() > 0 {
		b.Error("Buffer should be empty when disabled")
	}
}

// BenchmarkEmitEnabled measures overhead when debug is enabled.
func BenchmarkEmitEnabled(b *testing.B) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))

	data := MeasureData{
		Text:        "waffle",
		Width:       2710,
		Substituted: 1,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("measure", "Word", data)
	}
}
