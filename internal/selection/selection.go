// Package selection filters candidate words, ranks them by advance width and
// applies the width bounds, n-gram and count limits of a selection run.
package selection

import (
	"sort"
	"strings"
	"sync"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/ryanlewis/typestrings/internal/common"
	"github.com/ryanlewis/typestrings/internal/debug"
)

// Entry is a selected word or word sequence with its advance width.
type Entry struct {
	Text  string
	Width int
}

// WidthFunc returns the advance width of a string.
type WidthFunc func(text string) int

// ProgressFunc receives the number of candidates processed so far and the
// total expected.
type ProgressFunc func(done, total int)

// Option configures Rank and RankSequences.
type Option func(*config)

type config struct {
	workers  int
	debug    *debug.Session
	progress ProgressFunc
}

// WithWorkers measures words on n goroutines in single-word mode.
// Values below 2 measure on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > common.MaxWorkers {
			n = common.MaxWorkers
		}
		c.workers = n
	}
}

// WithDebug emits a select/Candidate event for every measured candidate.
func WithDebug(s *debug.Session) Option {
	return func(c *config) {
		c.debug = s
	}
}

// WithProgress reports measuring progress. It is always called from the
// goroutine that called Rank or RankSequences.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

func newConfig(opts []Option) *config {
	c := &config{workers: common.DefaultWorkers}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) report(done, total int) {
	if c.progress != nil {
		c.progress(done, total)
	}
}

// Rank measures every word and keeps those admitted by b, widest first.
// Ties keep input order.
func Rank(words []string, width WidthFunc, b Bounds, opts ...Option) []Entry {
	c := newConfig(opts)
	widths := c.measureAll(words, width)

	entries := make([]Entry, 0, len(words))
	for i, w := range words {
		reason := b.classify(widths[i])
		c.debug.Emit("select", "Candidate", debug.CandidateData{Text: w, Width: widths[i], Reason: reason})
		if b.Admits(widths[i]) {
			entries = append(entries, Entry{Text: w, Width: widths[i]})
		}
	}
	sortByWidth(entries)
	return entries
}

// measureAll computes widths for all words, fanning out to workers when
// configured. Every width is known before it returns.
func (c *config) measureAll(words []string, width WidthFunc) []int {
	widths := make([]int, len(words))
	total := len(words)

	if c.workers < 2 || total < 2 {
		for i, w := range words {
			widths[i] = width(w)
			c.report(i+1, total)
		}
		return widths
	}

	jobs := make(chan int)
	done := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	for n := 0; n < c.workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				widths[i] = width(words[i])
				done <- struct{}{}
			}
		}()
	}
	go func() {
		for i := range words {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(done)
	}()

	finished := 0
	for range done {
		finished++
		c.report(finished, total)
	}
	return widths
}

// RankSequences grows a space-joined candidate from every start index, one
// word at a time, until its width reaches b.Max or the words run out. Each
// distinct string inside the bounds is kept once, in first-found order, and
// the result is sorted widest first. The lower bound defaults to zero and is
// exclusive. Words must not be deduplicated beforehand.
func RankSequences(words []string, width WidthFunc, b Bounds, opts ...Option) ([]Entry, error) {
	if err := b.Validate(true); err != nil {
		return nil, err
	}
	b = b.sequenceBounds()
	c := newConfig(opts)

	found := linkedhashset.New()
	widths := make(map[string]int)
	var sb strings.Builder
	for i := range words {
		sb.Reset()
		for j := i; j < len(words); j++ {
			if j > i {
				sb.WriteByte(' ')
			}
			sb.WriteString(words[j])
			text := sb.String()
			w := width(text)

			reason := b.classify(w)
			c.debug.Emit("select", "Candidate", debug.CandidateData{
				Text: text, Width: w, Start: i, Length: j - i + 1, Reason: reason,
			})
			if b.Admits(w) && !found.Contains(text) {
				found.Add(text)
				widths[text] = w
			}
			if w >= b.Max {
				break
			}
		}
		c.report(i+1, len(words))
	}

	entries := make([]Entry, 0, found.Size())
	for _, v := range found.Values() {
		text := v.(string)
		entries = append(entries, Entry{Text: text, Width: widths[text]})
	}
	sortByWidth(entries)
	return entries, nil
}

func sortByWidth(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Width > entries[j].Width
	})
}

// FilterNgrams keeps the entries containing at least one of ngrams, each
// once and in order. An empty ngram list keeps everything.
func FilterNgrams(entries []Entry, ngrams []string) []Entry {
	if len(ngrams) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		for _, g := range ngrams {
			if strings.Contains(e.Text, g) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Truncate keeps the first n entries when n is positive.
func Truncate(entries []Entry, n int) []Entry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
