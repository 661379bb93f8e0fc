// Package typestrings selects words and word sequences from sample text that
// a font can render and whose typeset width falls inside a requested range.
//
// Widths are advance widths in font design units, with pair kerning applied
// and literal substitution rules (such as ligatures) measured as a single
// glyph. The result is ordered widest first, which makes it a ready source of
// realistic test strings for specimens and proofing.
//
// Example:
//
//	font, err := typestrings.LoadFont("MyFont.ufo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := typestrings.Select(text, font,
//	    typestrings.WithMaxWidth(3000),
//	    typestrings.WithMaxResults(20))
package typestrings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ryanlewis/typestrings/internal/otf"
	"github.com/ryanlewis/typestrings/internal/parser"
	"github.com/ryanlewis/typestrings/internal/ufo"
)

// LoadFont loads a font from disk. Directories are read as UFO sources;
// files are parsed as TrueType or OpenType.
// The returned Font is immutable and safe for concurrent use across goroutines.
func LoadFont(fontPath string) (*Font, error) {
	info, err := os.Stat(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open font: %w", err)
	}

	base := filepath.Base(filepath.Clean(fontPath))
	if info.IsDir() {
		data, err := ufo.LoadDir(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", fontPath, err)
		}
		return named(newFont(data), base), nil
	}

	data, err := otf.LoadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", fontPath, err)
	}
	return named(newFont(data), base), nil
}

// ParseFont parses TrueType or OpenType font data.
// The returned Font is immutable and safe for concurrent use across goroutines.
func ParseFont(data []byte) (*Font, error) {
	f, err := otf.Parse(data)
	if err != nil {
		return nil, err
	}
	return newFont(f), nil
}

// cleanFSPath validates and cleans a path for use with fs.FS.
// It ensures the path is valid according to fs.ValidPath rules and
// prevents directory traversal attacks.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		// rejects ".", ".." segments, empty elements, etc.
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p) // purely slash semantics
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

// LoadFontFS loads a font from a filesystem at the specified path. A
// directory is read as a UFO source, a file as TrueType or OpenType.
// Path traversal (e.g., "../") is not allowed.
//
// Example with embed.FS:
//
//	//go:embed fonts
//	var fonts embed.FS
//
//	font, err := typestrings.LoadFontFS(fonts, "fonts/Sample.ufo")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadFontFS(fsys fs.FS, fontPath string) (*Font, error) {
	if fsys == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}

	clean, err := cleanFSPath(fontPath)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open font file: %w", err)
	}

	base := path.Base(clean)
	if info.IsDir() {
		data, err := ufo.Load(fsys, clean, base)
		if err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", clean, err)
		}
		return named(newFont(data), base), nil
	}

	raw, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open font file: %w", err)
	}
	font, err := ParseFont(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", clean, err)
	}
	return named(font, base), nil
}

// named falls back to the file name (without extension) when the font
// carries no name of its own.
func named(f *Font, file string) *Font {
	if f.Name == "" {
		f.Name = strings.TrimSuffix(file, path.Ext(file))
	}
	return f
}

// RuleFile is a parsed substitution rule file.
type RuleFile struct {
	Rules Rules
	// Warnings reports skipped lines, with line numbers
	Warnings []string
}

// ParseRules reads substitution rules, one "pattern:glyph" per line.
// Lines starting with '#', blank lines and lines without ':' are ignored.
// The line is split at its last colon.
func ParseRules(r io.Reader) (*RuleFile, error) {
	rf, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	return &RuleFile{Rules: rf.Rules, Warnings: rf.Warnings}, nil
}

// LoadRules reads a substitution rule file from disk.
func LoadRules(rulePath string) (*RuleFile, error) {
	data, err := os.ReadFile(rulePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	return ParseRules(bytes.NewReader(data))
}
