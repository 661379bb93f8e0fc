// Package otf loads TrueType and OpenType fonts into the read-only glyph
// data used for measuring.
//
// The cmap, glyph names and advances come from go-text/typesetting; the
// display name and pair kerning (GPOS, falling back to the kern table)
// come from x/image/font/sfnt. Values are in font design units.
package otf

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"

	"github.com/ryanlewis/typestrings/internal/common"
	"github.com/ryanlewis/typestrings/internal/glyphs"
)

// Format is the glyphs.Font format name of OpenType fonts.
const Format = "opentype"

// LoadFile reads and parses the font file at path.
func LoadFile(path string) (*glyphs.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a single TrueType or OpenType font.
func Parse(data []byte) (*glyphs.Font, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}

	upem := int(face.Upem())
	b := glyphs.NewBuilder(fontName(sf), Format, upem)

	codepoints := make(map[gotext.GID][]rune)
	for it := face.Cmap.Iter(); it.Next(); {
		r, gid := it.Char()
		codepoints[gid] = append(codepoints[gid], r)
	}

	n := sf.NumGlyphs()
	ids := make(map[string]sfnt.GlyphIndex, n)
	for i := 0; i < n; i++ {
		gid := gotext.GID(i)
		name := face.GlyphName(gid)
		if _, dup := ids[name]; name == "" || dup {
			name = fmt.Sprintf("gid%d", i)
		}
		ids[name] = sfnt.GlyphIndex(i)

		cps := codepoints[gid]
		sort.Slice(cps, func(x, y int) bool { return cps[x] < cps[y] })
		b.Add(glyphs.Glyph{
			Name:       name,
			Advance:    int(math.Round(float64(face.HorizontalAdvance(gid)))),
			Codepoints: cps,
		})
	}
	b.SetKerning(newPairKerning(sf, ids, upem))

	return b.Build(), nil
}

// fontName prefers the full name, then family and subfamily.
func fontName(f *sfnt.Font) string {
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	family, _ := f.Name(&buf, sfnt.NameIDFamily)
	sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
	if family != "" && sub != "" {
		return family + " " + sub
	}
	return family
}
