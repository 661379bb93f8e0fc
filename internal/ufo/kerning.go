package ufo

import (
	"sort"

	"github.com/ryanlewis/typestrings/internal/glyphs"
)

// pair precedence, lowest first
const (
	groupGroup = iota
	groupGlyph
	glyphGroup
	glyphGlyph
)

// expandKerning flattens UFO kerning into glyph pairs. A kerning side that
// names a group stands for every member. When several entries produce the
// same glyph pair, the more specific one wins: glyph-glyph, then
// glyph-group, then group-glyph, then group-group. Ties go to the entry
// whose sides sort first.
func expandKerning(kerning map[string]map[string]number, groups map[string][]string) glyphs.PairTable {
	type entry struct {
		left, right string
		value       int
		rank        int
	}

	var entries []entry
	for left, row := range kerning {
		_, lg := groups[left]
		for right, v := range row {
			_, rg := groups[right]
			rank := glyphGlyph
			switch {
			case lg && rg:
				rank = groupGroup
			case lg:
				rank = groupGlyph
			case rg:
				rank = glyphGroup
			}
			entries = append(entries, entry{left: left, right: right, value: int(v), rank: rank})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.rank != b.rank {
			return a.rank > b.rank
		}
		if a.left != b.left {
			return a.left < b.left
		}
		return a.right < b.right
	})

	members := func(side string) []string {
		if g, ok := groups[side]; ok {
			return g
		}
		return []string{side}
	}

	table := make(glyphs.PairTable, len(entries))
	for _, e := range entries {
		for _, l := range members(e.left) {
			for _, r := range members(e.right) {
				p := glyphs.Pair{Left: l, Right: r}
				if _, ok := table[p]; !ok {
					table[p] = e.value
				}
			}
		}
	}
	return table
}
