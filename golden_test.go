package typestrings

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// goldenMetadata represents the YAML front matter in golden files.
// This should match the struct in cmd/generate-goldens.
type goldenMetadata struct {
	Font           string   `yaml:"font"`
	Sample         string   `yaml:"sample"`
	MinWidth       *int     `yaml:"min_width"`
	MaxWidth       *int     `yaml:"max_width"`
	MaxResults     int      `yaml:"max_results"`
	Sequences      bool     `yaml:"sequences"`
	Ngrams         []string `yaml:"ngrams"`
	Rules          string   `yaml:"rules"`
	Force          *string  `yaml:"force"`
	Generated      string   `yaml:"generated"`
	Generator      string   `yaml:"generator"`
	ChecksumSHA256 string   `yaml:"checksum_sha256"`
}

const (
	goldenDir = "testdata/goldens"
	fontDir   = "testdata/fonts"
)

// parseGoldenFile parses a markdown golden file and extracts metadata and
// the expected "text<TAB>width" lines.
func parseGoldenFile(path string) (*goldenMetadata, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open golden file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	inFrontMatter := false
	var frontMatter strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			if inFrontMatter {
				break
			}
			inFrontMatter = true
			continue
		}
		if inFrontMatter {
			frontMatter.WriteString(line)
			frontMatter.WriteByte('\n')
		}
	}

	metadata := &goldenMetadata{}
	if err := yaml.Unmarshal([]byte(frontMatter.String()), metadata); err != nil {
		return nil, "", fmt.Errorf("invalid front matter in %s: %w", path, err)
	}

	var resultLines []string
	inCodeBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "```text") {
			inCodeBlock = true
			continue
		}
		if strings.HasPrefix(line, "```") && inCodeBlock {
			break
		}
		if inCodeBlock {
			resultLines = append(resultLines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("error reading golden file: %w", err)
	}

	return metadata, strings.Join(resultLines, "\n"), nil
}

// options maps golden metadata onto selection options.
func (m *goldenMetadata) options(t *testing.T) []Option {
	t.Helper()
	var opts []Option
	if m.MinWidth != nil {
		opts = append(opts, WithMinWidth(*m.MinWidth))
	}
	if m.MaxWidth != nil {
		opts = append(opts, WithMaxWidth(*m.MaxWidth))
	}
	if m.Force != nil {
		opts = append(opts, WithForcedCharset(*m.Force))
	}
	if m.Rules != "" {
		rf, err := LoadRules(filepath.Join(fontDir, m.Rules))
		if err != nil {
			t.Fatalf("Failed to load rules %s: %v", m.Rules, err)
		}
		opts = append(opts, WithRules(rf.Rules))
	}
	return append(opts,
		WithMaxResults(m.MaxResults),
		WithSequences(m.Sequences),
		WithNgrams(m.Ngrams...),
	)
}

func formatEntries(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s\t%d", e.Text, e.Width)
	}
	return strings.Join(lines, "\n")
}

func TestGoldenFiles(t *testing.T) {
	if _, err := os.Stat(goldenDir); os.IsNotExist(err) {
		t.Skip("Golden test files not found. Run go run ./cmd/generate-goldens to generate them.")
	}

	var goldenFiles []string
	err := filepath.WalkDir(goldenDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			goldenFiles = append(goldenFiles, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk golden directory: %v", err)
	}
	if len(goldenFiles) == 0 {
		t.Skip("No golden test files found")
	}

	t.Logf("Found %d golden test files", len(goldenFiles))

	fonts := NewFontCache(0)
	for _, goldenFile := range goldenFiles {
		relPath, _ := filepath.Rel(goldenDir, goldenFile)
		testName := strings.TrimSuffix(relPath, ".md")

		t.Run(testName, func(t *testing.T) {
			metadata, expected, err := parseGoldenFile(goldenFile)
			if err != nil {
				t.Fatalf("Failed to parse golden file: %v", err)
			}

			sum := sha256.Sum256([]byte(expected))
			if got := hex.EncodeToString(sum[:]); got != metadata.ChecksumSHA256 {
				t.Fatalf("Golden file edited by hand: checksum %s, front matter says %s", got, metadata.ChecksumSHA256)
			}

			font, err := fonts.LoadFont(filepath.Join(fontDir, metadata.Font))
			if err != nil {
				t.Fatalf("Failed to load font %s: %v", metadata.Font, err)
			}

			res, err := Select(metadata.Sample, font, metadata.options(t)...)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			got := formatEntries(res.Entries)
			if got == expected {
				return
			}

			gotLines := strings.Split(got, "\n")
			expectedLines := strings.Split(expected, "\n")
			t.Errorf("Output mismatch for %s (sample %q)", testName, metadata.Sample)
			for i := 0; i < len(gotLines) || i < len(expectedLines); i++ {
				if i >= len(expectedLines) {
					t.Errorf("Line %d: Got extra line: %q", i+1, gotLines[i])
					break
				}
				if i >= len(gotLines) {
					t.Errorf("Line %d: Missing expected line: %q", i+1, expectedLines[i])
					break
				}
				if gotLines[i] != expectedLines[i] {
					t.Errorf("Line %d differs:", i+1)
					t.Errorf("  Got:      %q", gotLines[i])
					t.Errorf("  Expected: %q", expectedLines[i])
					break
				}
			}
		})
	}
}
