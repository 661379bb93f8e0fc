// Command generate-goldens regenerates the selection snapshots under
// testdata/goldens from the fonts in testdata/fonts. Review the diff before
// committing: a changed snapshot is a changed width somewhere.
package main

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ryanlewis/typestrings"
)

// GoldenMetadata represents the YAML front matter in golden files
// This should match the struct in golden_test.go
type GoldenMetadata struct {
	Font           string   `yaml:"font"`
	Sample         string   `yaml:"sample"`
	MinWidth       *int     `yaml:"min_width,omitempty"`
	MaxWidth       *int     `yaml:"max_width,omitempty"`
	MaxResults     int      `yaml:"max_results,omitempty"`
	Sequences      bool     `yaml:"sequences,omitempty"`
	Ngrams         []string `yaml:"ngrams,omitempty,flow"`
	Rules          string   `yaml:"rules,omitempty"`
	Force          *string  `yaml:"force,omitempty"`
	Generated      string   `yaml:"generated"`
	Generator      string   `yaml:"generator"`
	ChecksumSHA256 string   `yaml:"checksum_sha256"`
}

// goldenCase names one snapshot; the file lands at <font stem>/<Name>.md.
type goldenCase struct {
	Name string
	GoldenMetadata
}

var version = "dev"

const sampleText = "the cat the office tea boo in sun"

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

var defaultCases = []goldenCase{
	{"words/bounded", GoldenMetadata{Font: "Sample.ufo", Sample: sampleText, MinWidth: intp(900), MaxWidth: intp(2000)}},
	{"words/ligatures", GoldenMetadata{Font: "Sample.ufo", Sample: sampleText, Rules: "Sample.rules"}},
	{"words/combinations", GoldenMetadata{Font: "Sample.ufo", Sample: sampleText, MinWidth: intp(900), MaxWidth: intp(2000), Ngrams: []string{"ea", "oo"}}},
	{"words/forced", GoldenMetadata{Font: "Sample.ufo", Sample: sampleText, Force: strp("theca")}},
	{"sequences/open", GoldenMetadata{Font: "Sample.ufo", Sample: "to the tea", Sequences: true, MaxWidth: intp(3000)}},
	{"sequences/limited", GoldenMetadata{Font: "Sample.ufo", Sample: "to the tea", Sequences: true, MinWidth: intp(1000), MaxWidth: intp(3000), MaxResults: 2}},
}

var (
	outDir  = pflag.String("out", "testdata/goldens", "Output directory")
	fontDir = pflag.String("fontdir", "testdata/fonts", "Directory holding fonts and rule files")
	only    = pflag.String("only", "", "Regenerate only cases whose name contains this string")
	strict  = pflag.Bool("strict", false, "Exit on any failure")
)

func main() {
	pflag.Parse()

	fonts := typestrings.NewFontCache(0)
	failed := 0
	for _, c := range defaultCases {
		if *only != "" && !strings.Contains(c.Name, *only) {
			continue
		}
		if err := generateGoldenFile(fonts, c); err != nil {
			if *strict {
				pterm.Fatal.Printf("Failed to generate golden file: %v\n", err)
			}
			pterm.Warning.Println(err)
			failed++
		}
	}

	stats := fonts.Stats()
	pterm.Info.Printf("%d fonts parsed, %d cache hits\n", stats.Size, stats.Hits)

	if failed > 0 {
		pterm.Warning.Printf("%d golden files failed\n", failed)
		os.Exit(1)
	}
	pterm.Success.Println("Golden file generation complete")
}

func generateGoldenFile(fonts *typestrings.FontCache, c goldenCase) error {
	stem := strings.TrimSuffix(c.Font, filepath.Ext(c.Font))
	outFile := filepath.Join(*outDir, stem, c.Name+".md")
	pterm.Info.Printf("Generating %s/%s.md\n", stem, c.Name)

	font, err := fonts.LoadFont(filepath.Join(*fontDir, c.Font))
	if err != nil {
		return fmt.Errorf("failed to load font %s: %w", c.Font, err)
	}

	opts, err := selectOptions(c.GoldenMetadata)
	if err != nil {
		return err
	}
	res, err := typestrings.Select(c.Sample, font, opts...)
	if err != nil {
		return fmt.Errorf("failed to select for %s: %w", c.Name, err)
	}

	lines := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		lines[i] = fmt.Sprintf("%s\t%d", e.Text, e.Width)
	}
	body := strings.Join(lines, "\n")

	metadata := c.GoldenMetadata
	metadata.Generated = time.Now().UTC().Format(time.RFC3339)
	metadata.Generator = "generate-goldens " + version
	metadata.ChecksumSHA256 = calculateChecksum(body)

	yamlData, err := yaml.Marshal(&metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlData)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s / %s\n\n", stem, c.Name)
	buf.WriteString("```text\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	buf.WriteString("```\n")

	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", outFile, err)
	}
	if err := os.WriteFile(outFile, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", outFile, err)
	}
	return nil
}

func selectOptions(m GoldenMetadata) ([]typestrings.Option, error) {
	opts := []typestrings.Option{
		typestrings.WithMaxResults(m.MaxResults),
		typestrings.WithSequences(m.Sequences),
		typestrings.WithNgrams(m.Ngrams...),
	}
	if m.MinWidth != nil {
		opts = append(opts, typestrings.WithMinWidth(*m.MinWidth))
	}
	if m.MaxWidth != nil {
		opts = append(opts, typestrings.WithMaxWidth(*m.MaxWidth))
	}
	if m.Force != nil {
		opts = append(opts, typestrings.WithForcedCharset(*m.Force))
	}
	if m.Rules != "" {
		rf, err := typestrings.LoadRules(filepath.Join(*fontDir, m.Rules))
		if err != nil {
			return nil, err
		}
		opts = append(opts, typestrings.WithRules(rf.Rules))
	}
	return opts, nil
}

func calculateChecksum(data string) string {
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
