// Package ufo loads Unified Font Object sources (UFO 2 and 3) into the
// read-only glyph data used for measuring.
//
// Only the parts that affect advance widths are read: font info, glyph
// order, the default glyph layer, groups and kerning. Outlines are ignored.
package ufo

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/ryanlewis/typestrings/internal/common"
	"github.com/ryanlewis/typestrings/internal/glyphs"
)

// Format is the glyphs.Font format name of UFO fonts.
const Format = "ufo"

const (
	defaultLayerDir  = "glyphs"
	defaultLayerName = "public.default"
	glyphOrderKey    = "public.glyphOrder"
	defaultUPM       = 1000
)

type metaInfo struct {
	Creator       string `plist:"creator"`
	FormatVersion int    `plist:"formatVersion"`
}

type fontInfo struct {
	FamilyName string `plist:"familyName"`
	StyleName  string `plist:"styleName"`
	UnitsPerEm number `plist:"unitsPerEm"`
}

// LoadDir loads the UFO directory at dir.
func LoadDir(dir string) (*glyphs.Font, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a UFO directory", common.ErrBadFontFormat, dir)
	}
	return Load(os.DirFS(dir), ".", path.Base(strings.TrimRight(dir, "/\\")))
}

// Load reads the UFO rooted at root within fsys. fallbackName is used when
// fontinfo.plist names no family.
//
// Glyphs are registered in public.glyphOrder first, then the remaining
// names in sorted order; a codepoint claimed by several glyphs stays with
// the first one registered.
func Load(fsys fs.FS, root, fallbackName string) (*glyphs.Font, error) {
	sub, err := fs.Sub(fsys, root)
	if err != nil {
		return nil, err
	}

	var meta metaInfo
	ok, err := readPlist(sub, "metainfo.plist", &meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: metainfo.plist not found", common.ErrBadFontFormat)
	}
	if meta.FormatVersion < 1 || meta.FormatVersion > 3 {
		return nil, fmt.Errorf("%w: unsupported UFO format version %d", common.ErrBadFontFormat, meta.FormatVersion)
	}

	info := fontInfo{UnitsPerEm: defaultUPM}
	if _, err := readPlist(sub, "fontinfo.plist", &info); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	name := strings.TrimSpace(info.FamilyName + " " + info.StyleName)
	if name == "" {
		name = strings.TrimSuffix(fallbackName, ".ufo")
	}

	layer, err := defaultLayer(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	var contents map[string]string
	ok, err = readPlist(sub, path.Join(layer, "contents.plist"), &contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s/contents.plist not found", common.ErrBadFontFormat, layer)
	}

	var lib map[string]interface{}
	if _, err := readPlist(sub, "lib.plist", &lib); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}

	b := glyphs.NewBuilder(name, Format, int(info.UnitsPerEm))
	for _, glyphName := range glyphOrder(contents, lib) {
		file := path.Join(layer, contents[glyphName])
		data, err := fs.ReadFile(sub, file)
		if err != nil {
			return nil, fmt.Errorf("%w: glyph %s: %v", common.ErrBadFontFormat, glyphName, err)
		}
		g, err := parseGlif(data, glyphName)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrBadFontFormat, file, err)
		}
		b.Add(g)
	}

	var groups map[string][]string
	if _, err := readPlist(sub, "groups.plist", &groups); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	var kerning map[string]map[string]number
	if _, err := readPlist(sub, "kerning.plist", &kerning); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFontFormat, err)
	}
	if len(kerning) > 0 {
		b.SetKerning(expandKerning(kerning, groups))
	}

	return b.Build(), nil
}

// defaultLayer returns the directory of the default glyph layer. UFO 3
// lists layers in layercontents.plist; older fonts have a single layer.
func defaultLayer(fsys fs.FS) (string, error) {
	var layers [][]string
	ok, err := readPlist(fsys, "layercontents.plist", &layers)
	if err != nil || !ok {
		return defaultLayerDir, err
	}
	for _, l := range layers {
		if len(l) == 2 && l[0] == defaultLayerName {
			return l[1], nil
		}
	}
	for _, l := range layers {
		if len(l) == 2 && l[1] == defaultLayerDir {
			return l[1], nil
		}
	}
	return defaultLayerDir, nil
}

// glyphOrder lists the glyph names of contents: those named in
// public.glyphOrder first, in that order, then the rest sorted.
func glyphOrder(contents map[string]string, lib map[string]interface{}) []string {
	order := make([]string, 0, len(contents))
	seen := make(map[string]bool, len(contents))

	if list, ok := lib[glyphOrderKey].([]interface{}); ok {
		for _, v := range list {
			name, ok := v.(string)
			if !ok || seen[name] {
				continue
			}
			if _, exists := contents[name]; !exists {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}

	rest := make([]string, 0, len(contents)-len(order))
	for name := range contents {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
