package otf

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ryanlewis/typestrings/internal/glyphs"
)

type kernValue struct {
	value int
	ok    bool
}

// pairKerning answers pair kerning from the font's GPOS or kern table,
// memoising every lookup. Safe for concurrent use.
type pairKerning struct {
	font *sfnt.Font
	ids  map[string]sfnt.GlyphIndex
	ppem fixed.Int26_6

	mu    sync.Mutex
	buf   sfnt.Buffer
	cache map[glyphs.Pair]kernValue
}

func newPairKerning(f *sfnt.Font, ids map[string]sfnt.GlyphIndex, upem int) *pairKerning {
	return &pairKerning{
		font: f,
		ids:  ids,
		// one pixel per design unit keeps results in font units
		ppem:  fixed.Int26_6(upem << 6),
		cache: make(map[glyphs.Pair]kernValue),
	}
}

// Kern implements glyphs.Kerning. Zero adjustments report absent.
func (k *pairKerning) Kern(left, right string) (int, bool) {
	l, ok := k.ids[left]
	if !ok {
		return 0, false
	}
	r, ok := k.ids[right]
	if !ok {
		return 0, false
	}

	p := glyphs.Pair{Left: left, Right: right}
	k.mu.Lock()
	defer k.mu.Unlock()
	if v, ok := k.cache[p]; ok {
		return v.value, v.ok
	}

	var v kernValue
	adj, err := k.font.Kern(&k.buf, l, r, k.ppem, font.HintingNone)
	if err == nil && adj != 0 {
		v = kernValue{value: adj.Round(), ok: true}
	}
	k.cache[p] = v
	return v.value, v.ok
}

// Len returns the number of pairs looked up so far.
func (k *pairKerning) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.cache)
}
