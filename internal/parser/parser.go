// Package parser implements parsing of substitution rule files.
//
// A rule file holds one rule per line in the form
//
//	pattern:glyph
//
// Every occurrence of pattern in a measured word is measured as the single
// glyph named glyph (typically a ligature). Blank lines, lines starting with
// '#' and lines without a ':' are ignored.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ryanlewis/typestrings/internal/glyphs"
)

const (
	// commentPrefix starts a comment line
	commentPrefix = "#"
	// separator splits pattern from glyph name
	separator = ":"
	// utf8BOM is stripped from the first line; some editors write one
	utf8BOM = "\uFEFF"

	// Buffer size constants
	defaultBufferSize = 64 * 1024
	maxBufferSize     = 4 * 1024 * 1024
)

// RuleFile is a parsed substitution rule file.
type RuleFile struct {
	// Rules holds the rules in file order
	Rules glyphs.Rules

	// Warnings contains any non-fatal issues encountered during parsing
	Warnings []string
}

// Parse reads a substitution rule file from the provided reader.
func Parse(r io.Reader) (*RuleFile, error) {
	buf := acquireScannerBuffer()
	defer releaseScannerBuffer(buf)

	scanner := bufio.NewScanner(r)
	// Increase buffer size for large rule files (default is 64KB, set max to 4MB)
	scanner.Buffer(buf, maxBufferSize)

	rf := &RuleFile{}
	seen := make(map[string]int)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			// Strip UTF-8 BOM from the first line if present
			line = strings.TrimPrefix(line, utf8BOM)
		}
		rule, ok, warning := parseLine(line)
		if warning != "" {
			rf.Warnings = append(rf.Warnings, fmt.Sprintf("line %d: %s", lineNo, warning))
		}
		if !ok {
			continue
		}
		if first, dup := seen[rule.Pattern]; dup {
			rf.Warnings = append(rf.Warnings,
				fmt.Sprintf("line %d: pattern %q already defined on line %d, ignored", lineNo, rule.Pattern, first))
			continue
		}
		seen[rule.Pattern] = lineNo
		rf.Rules = append(rf.Rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rule file at line %d: %w", lineNo+1, err)
	}
	return rf, nil
}

// ParseString parses rules from a string.
func ParseString(s string) (*RuleFile, error) {
	return Parse(strings.NewReader(s))
}

// parseLine parses a single line. It reports ok=false for lines that carry
// no rule; a non-empty warning explains lines that looked like a rule but
// could not be used.
func parseLine(line string) (rule glyphs.Rule, ok bool, warning string) {
	// Trim only CR; bufio.Scanner already strips LF
	line = strings.TrimSuffix(line, "\r")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
		return glyphs.Rule{}, false, ""
	}

	// Glyph names never contain a colon, patterns may
	i := strings.LastIndex(trimmed, separator)
	if i < 0 {
		return glyphs.Rule{}, false, ""
	}
	pattern := strings.TrimSpace(trimmed[:i])
	glyph := strings.TrimSpace(trimmed[i+len(separator):])
	switch {
	case pattern == "":
		return glyphs.Rule{}, false, "empty pattern, ignored"
	case glyph == "":
		return glyphs.Rule{}, false, fmt.Sprintf("pattern %q has no glyph, ignored", pattern)
	}
	return glyphs.Rule{Pattern: pattern, Glyph: glyph}, true, ""
}
