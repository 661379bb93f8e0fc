package selection

import (
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Charset answers whether a character may appear in a candidate.
// *glyphs.Repertoire satisfies it.
type Charset interface {
	Contains(r rune) bool
}

// RuneSet is a literal character set, used for forced charsets.
type RuneSet map[rune]struct{}

// NewRuneSet returns the set of characters in s.
func NewRuneSet(s string) RuneSet {
	set := make(RuneSet, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// Contains implements Charset.
func (s RuneSet) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

// FilterResult separates renderable words from rejects.
type FilterResult struct {
	// Valid keeps every occurrence of each renderable word, in input order
	Valid []string
	// Rejected lists each rejected spelling once, sorted
	Rejected []string
	// Missing lists the characters that caused rejections, sorted
	Missing []rune
}

// Filter keeps the words whose every character is in rep and, when forced
// is non-nil, in forced. Rejection goes by spelling, so every occurrence of
// a rejected word is dropped.
func Filter(words []string, rep, forced Charset) FilterResult {
	rejected := treeset.NewWithStringComparator()
	missing := treeset.NewWith(utils.RuneComparator)
	verdict := make(map[string]bool, len(words))

	valid := make([]string, 0, len(words))
	for _, w := range words {
		ok, seen := verdict[w]
		if !seen {
			ok = true
			for _, r := range w {
				if (forced != nil && !forced.Contains(r)) || rep == nil || !rep.Contains(r) {
					ok = false
					missing.Add(r)
				}
			}
			verdict[w] = ok
			if !ok {
				rejected.Add(w)
			}
		}
		if ok {
			valid = append(valid, w)
		}
	}

	res := FilterResult{Valid: valid}
	for _, v := range rejected.Values() {
		res.Rejected = append(res.Rejected, v.(string))
	}
	for _, v := range missing.Values() {
		res.Missing = append(res.Missing, v.(rune))
	}
	return res
}

// Dedupe drops repeated words, keeping the first occurrence of each in
// order. Sequence mode must not dedupe: adjacency in the input forms the
// sequences.
func Dedupe(words []string) []string {
	set := linkedhashset.New()
	for _, w := range words {
		set.Add(w)
	}
	out := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(string))
	}
	return out
}
