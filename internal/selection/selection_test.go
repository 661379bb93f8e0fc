package selection

import (
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanlewis/typestrings/internal/common"
)

// runeWidth measures ten units per rune, spaces included.
func runeWidth(s string) int {
	return 10 * len([]rune(s))
}

func texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

func assertNonIncreasing(t *testing.T, entries []Entry) {
	t.Helper()
	assert.True(t, sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].Width > entries[j].Width
	}), "entries not ordered by width: %v", entries)
}

func TestBoundsValidate(t *testing.T) {
	tests := []struct {
		name     string
		b        Bounds
		sequence bool
		want     error
	}{
		{"no bounds", Bounds{}, false, nil},
		{"max only", Bounds{Max: 100, HasMax: true}, false, nil},
		{"min below max", Bounds{Min: 10, Max: 100, HasMin: true, HasMax: true}, false, nil},
		{"min equals max", Bounds{Min: 100, Max: 100, HasMin: true, HasMax: true}, false, common.ErrInvalidBounds},
		{"min above max", Bounds{Min: 200, Max: 100, HasMin: true, HasMax: true}, true, common.ErrInvalidBounds},
		{"sequence without max", Bounds{Min: 10, HasMin: true}, true, common.ErrSequenceNeedsMax},
		{"sequence with max", Bounds{Max: 100, HasMax: true}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate(tt.sequence)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestFilter(t *testing.T) {
	rep := NewRuneSet("abcdefghijklmnopqrstuvwxyz")

	t.Run("forced_charset", func(t *testing.T) {
		res := Filter([]string{"ab", "abc"}, rep, NewRuneSet("ab"))
		assert.Equal(t, []string{"ab"}, res.Valid)
		assert.Equal(t, []string{"abc"}, res.Rejected)
		assert.Equal(t, []rune{'c'}, res.Missing)
	})

	t.Run("repertoire", func(t *testing.T) {
		res := Filter([]string{"zoë", "zoe", "ça", "zoë"}, rep, nil)
		assert.Equal(t, []string{"zoe"}, res.Valid)
		assert.Equal(t, []string{"zoë", "ça"}, res.Rejected)
		assert.Equal(t, []rune{'ç', 'ë'}, res.Missing)
	})

	t.Run("keeps_duplicates_and_order", func(t *testing.T) {
		res := Filter([]string{"b", "a", "b", "x1", "a"}, rep, nil)
		assert.Equal(t, []string{"b", "a", "b", "a"}, res.Valid)
		assert.Equal(t, []string{"x1"}, res.Rejected)
	})

	t.Run("nil_repertoire_rejects_all", func(t *testing.T) {
		res := Filter([]string{"a"}, nil, nil)
		assert.Empty(t, res.Valid)
		assert.Equal(t, []string{"a"}, res.Rejected)
	})
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"the", "cat", "the", "hat", "cat"})
	assert.Equal(t, []string{"the", "cat", "hat"}, got)
	assert.Empty(t, Dedupe(nil))
}

func TestRank(t *testing.T) {
	words := []string{"aa", "a", "aaaa", "bb", "aaa", "aaaaa"}

	t.Run("no_bounds_sorts_all", func(t *testing.T) {
		got := Rank(words, runeWidth, Bounds{})
		assert.Equal(t, []string{"aaaaa", "aaaa", "aaa", "aa", "bb", "a"}, texts(got))
		assertNonIncreasing(t, got)
	})

	t.Run("max_is_exclusive", func(t *testing.T) {
		got := Rank(words, runeWidth, Bounds{Max: 40, HasMax: true})
		assert.Equal(t, []string{"aaa", "aa", "bb", "a"}, texts(got))
		for _, e := range got {
			assert.Less(t, e.Width, 40)
		}
	})

	t.Run("min_is_exclusive", func(t *testing.T) {
		got := Rank(words, runeWidth, Bounds{Min: 20, Max: 50, HasMin: true, HasMax: true})
		assert.Equal(t, []string{"aaaa", "aaa"}, texts(got))
	})

	t.Run("workers_match_sequential", func(t *testing.T) {
		var many []string
		for i := 0; i < 200; i++ {
			many = append(many, strings.Repeat("x", i%17+1), strings.Repeat("y", i%5+1))
		}
		want := Rank(many, runeWidth, Bounds{Max: 120, HasMax: true})

		var calls int32
		got := Rank(many, runeWidth, Bounds{Max: 120, HasMax: true},
			WithWorkers(8),
			WithProgress(func(done, total int) {
				atomic.AddInt32(&calls, 1)
				assert.LessOrEqual(t, done, total)
			}))
		assert.Equal(t, want, got)
		assert.Equal(t, int32(len(many)), atomic.LoadInt32(&calls))
	})
}

func TestRankSequences(t *testing.T) {
	t.Run("all_subsequences", func(t *testing.T) {
		got, err := RankSequences([]string{"one", "two", "three"}, runeWidth, Bounds{Max: 999999, HasMax: true})
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"one", "one two", "one two three", "two", "two three", "three"},
			texts(got))
		assert.Equal(t, "one two three", got[0].Text)
		assertNonIncreasing(t, got)
	})

	t.Run("no_duplicate_text", func(t *testing.T) {
		got, err := RankSequences([]string{"a", "b", "a", "b"}, runeWidth, Bounds{Max: 100, HasMax: true})
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, e := range got {
			assert.False(t, seen[e.Text], "duplicate %q", e.Text)
			seen[e.Text] = true
		}
		assert.ElementsMatch(t, []string{"a", "b", "a b", "b a", "a b a", "b a b", "a b a b"}, texts(got))
	})

	t.Run("growth_stops_at_max", func(t *testing.T) {
		var measured []string
		width := func(s string) int {
			measured = append(measured, s)
			return runeWidth(s)
		}
		got, err := RankSequences([]string{"aa", "bb", "cc"}, width, Bounds{Max: 50, HasMax: true})
		require.NoError(t, err)
		// "aa bb" is 50 wide and ends growth from index 0
		assert.NotContains(t, measured, "aa bb cc")
		assert.Equal(t, []string{"aa", "bb", "cc"}, texts(got))
	})

	t.Run("bounds_exclusive", func(t *testing.T) {
		got, err := RankSequences([]string{"a", "bb", "c"}, runeWidth, Bounds{Min: 10, Max: 50, HasMin: true, HasMax: true})
		require.NoError(t, err)
		for _, e := range got {
			assert.Greater(t, e.Width, 10)
			assert.Less(t, e.Width, 50)
		}
		assert.ElementsMatch(t, []string{"bb", "a bb", "bb c"}, texts(got))
	})

	t.Run("zero_width_excluded_by_default_min", func(t *testing.T) {
		zero := func(string) int { return 0 }
		got, err := RankSequences([]string{"a", "b"}, zero, Bounds{Max: 10, HasMax: true})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("requires_max", func(t *testing.T) {
		_, err := RankSequences([]string{"a"}, runeWidth, Bounds{})
		assert.ErrorIs(t, err, common.ErrSequenceNeedsMax)
	})

	t.Run("ties_keep_first_found_order", func(t *testing.T) {
		got, err := RankSequences([]string{"ab", "cd"}, runeWidth, Bounds{Max: 30, HasMax: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"ab", "cd"}, texts(got))
	})
}

func TestFilterNgrams(t *testing.T) {
	entries := []Entry{{"office", 60}, {"waffle", 60}, {"cat", 30}, {"fifth", 50}}

	got := FilterNgrams(entries, []string{"ff", "fi"})
	// "office" contains both and is kept once
	assert.Equal(t, []string{"office", "waffle", "fifth"}, texts(got))

	assert.Equal(t, entries, FilterNgrams(entries, nil))
	assert.Empty(t, FilterNgrams(entries, []string{"zz"}))
}

func TestTruncate(t *testing.T) {
	entries := []Entry{{"c", 3}, {"b", 2}, {"a", 1}}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"c", "b", "a"}},
		{-1, []string{"c", "b", "a"}},
		{2, []string{"c", "b"}},
		{3, []string{"c", "b", "a"}},
		{10, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		got := Truncate(entries, tt.n)
		assert.Equal(t, tt.want, texts(got), "n=%d", tt.n)
		if tt.n > 0 {
			assert.LessOrEqual(t, len(got), tt.n)
		}
	}
}
