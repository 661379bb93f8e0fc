package ufo

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/ryanlewis/typestrings/internal/glyphs"
)

// glif is the subset of a .glif file needed for measuring.
type glif struct {
	XMLName xml.Name `xml:"glyph"`
	Name    string   `xml:"name,attr"`
	Advance struct {
		Width string `xml:"width,attr"`
	} `xml:"advance"`
	Unicodes []struct {
		Hex string `xml:"hex,attr"`
	} `xml:"unicode"`
}

// parseGlif decodes a glyph. The name from contents.plist wins over the
// name attribute.
func parseGlif(data []byte, name string) (glyphs.Glyph, error) {
	var g glif
	if err := xml.Unmarshal(data, &g); err != nil {
		return glyphs.Glyph{}, err
	}

	out := glyphs.Glyph{Name: name}
	if out.Name == "" {
		out.Name = g.Name
	}
	if g.Advance.Width != "" {
		w, err := strconv.ParseFloat(g.Advance.Width, 64)
		if err != nil {
			return glyphs.Glyph{}, fmt.Errorf("glyph %s: bad advance width %q", out.Name, g.Advance.Width)
		}
		out.Advance = int(math.Round(w))
	}
	for _, u := range g.Unicodes {
		cp, err := strconv.ParseUint(u.Hex, 16, 32)
		if err != nil {
			return glyphs.Glyph{}, fmt.Errorf("glyph %s: bad unicode %q", out.Name, u.Hex)
		}
		out.Codepoints = append(out.Codepoints, rune(cp))
	}
	return out, nil
}
