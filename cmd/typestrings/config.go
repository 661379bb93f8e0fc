package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// config holds one run's settings. A YAML profile fills it first, then any
// flag set on the command line overrides the profile value.
type config struct {
	Input         string   `yaml:"input"`
	Font          string   `yaml:"font"`
	Output        string   `yaml:"output"`
	MaxWidth      *int     `yaml:"max_width"`
	MinWidth      *int     `yaml:"min_width"`
	MaxResults    int      `yaml:"max_results"`
	Sequences     bool     `yaml:"sequences"`
	Combinations  []string `yaml:"combinations"`
	Force         *string  `yaml:"force"`
	Substitutions string   `yaml:"substitutions"`
	FilterPunct   bool     `yaml:"filter_punctuation"`
	FilterNumbers bool     `yaml:"filter_numbers"`
	Compose       bool     `yaml:"compose"`
	Case          string   `yaml:"case"`
	Clipboard     bool     `yaml:"clipboard"`
	Verbose       bool     `yaml:"verbose"`
	Quiet         bool     `yaml:"quiet"`
	Workers       int      `yaml:"workers"`
}

// flagValues are the raw flag destinations before merging.
type flagValues struct {
	input         string
	font          string
	output        string
	maxWidth      int
	minWidth      int
	maxResults    int
	sequences     bool
	combinations  string
	force         string
	substitutions string
	filterPunct   bool
	filterNumbers bool
	compose       bool
	caseName      string
	clipboard     bool
	verbose       bool
	quiet         bool
	workers       int

	configPath  string
	debugMode   bool
	debugFile   string
	debugPretty bool
	showVersion bool
	showHelp    bool
}

func newFlagSet(v *flagValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet("typestrings", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&v.input, "input", "i", "", "Input text file to extract strings from (required)")
	fs.StringVarP(&v.font, "font", "f", "", "Font file (.ttf, .otf) or UFO directory (required)")
	fs.StringVarP(&v.output, "output", "o", "", "Output file, '-' for stdout (default <font>_<input>_output.txt)")
	fs.IntVarP(&v.maxWidth, "max-width", "w", 0, "Exclusive maximum width in font units")
	fs.IntVar(&v.minWidth, "min-width", 0, "Exclusive minimum width in font units")
	fs.IntVarP(&v.maxResults, "max", "m", 0, "Maximum number of results (0 = all)")
	fs.BoolVarP(&v.sequences, "sequences", "s", false, "Select runs of consecutive words instead of single words (needs --max-width)")
	fs.StringVarP(&v.combinations, "combinations", "c", "", "Comma-separated letter combinations; keep only results containing one")
	fs.StringVarP(&v.force, "force", "F", "", "Only keep words spelled with these characters")
	fs.StringVarP(&v.substitutions, "substitutions", "r", "", "Substitution rule file (pattern:glyph per line)")
	fs.BoolVarP(&v.filterPunct, "filter-punctuation", "p", false, "Remove punctuation from the input")
	fs.BoolVarP(&v.filterNumbers, "filter-numbers", "n", false, "Remove digits from the input")
	fs.BoolVar(&v.compose, "compose", false, "Normalise the input to NFC before filtering")
	fs.StringVar(&v.caseName, "case", "none", "Case mapping: none, lower, upper or title")
	fs.BoolVarP(&v.clipboard, "clipboard", "C", false, "Also copy the results to the clipboard")
	fs.BoolVarP(&v.verbose, "verbose", "v", false, "Print run statistics")
	fs.BoolVarP(&v.quiet, "quiet", "q", false, "Do not show progress")
	fs.IntVar(&v.workers, "workers", 1, "Goroutines measuring words")
	fs.StringVar(&v.configPath, "config", "", "YAML profile supplying defaults for the flags above")
	fs.BoolVar(&v.debugMode, "debug", false, "Enable debug mode (outputs to stderr)")
	fs.StringVar(&v.debugFile, "debug-file", "", "Write debug output to file instead of stderr")
	fs.BoolVar(&v.debugPretty, "debug-pretty", false, "Use pretty format for debug output (default: JSON)")
	fs.BoolVar(&v.showVersion, "version", false, "Show version information")
	fs.BoolVarP(&v.showHelp, "help", "h", false, "Show help message")
	return fs
}

// loadConfig reads a YAML profile. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays explicitly set flags onto cfg. Flags left at their
// defaults only apply when the profile did not set the value either.
func merge(cfg *config, fs *pflag.FlagSet, v *flagValues) {
	set := fs.Changed

	if set("input") || cfg.Input == "" {
		cfg.Input = v.input
	}
	if set("font") || cfg.Font == "" {
		cfg.Font = v.font
	}
	if set("output") || cfg.Output == "" {
		cfg.Output = v.output
	}
	if set("max-width") {
		cfg.MaxWidth = &v.maxWidth
	}
	if set("min-width") {
		cfg.MinWidth = &v.minWidth
	}
	if set("max") {
		cfg.MaxResults = v.maxResults
	}
	if set("sequences") {
		cfg.Sequences = v.sequences
	}
	if set("combinations") {
		cfg.Combinations = splitCombinations(v.combinations)
	}
	if set("force") {
		cfg.Force = &v.force
	}
	if set("substitutions") {
		cfg.Substitutions = v.substitutions
	}
	if set("filter-punctuation") {
		cfg.FilterPunct = v.filterPunct
	}
	if set("filter-numbers") {
		cfg.FilterNumbers = v.filterNumbers
	}
	if set("compose") {
		cfg.Compose = v.compose
	}
	if set("case") || cfg.Case == "" {
		cfg.Case = v.caseName
	}
	if set("clipboard") {
		cfg.Clipboard = v.clipboard
	}
	if set("verbose") {
		cfg.Verbose = v.verbose
	}
	if set("quiet") {
		cfg.Quiet = v.quiet
	}
	if set("workers") || cfg.Workers == 0 {
		cfg.Workers = v.workers
	}
}

// splitCombinations parses the -c value, e.g. "ab, ff,ij".
func splitCombinations(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// defaultOutputPath derives "<font>_<input>_output.txt" from the base names
// of both paths, without extensions.
func defaultOutputPath(fontPath, inputPath string) string {
	return stem(fontPath) + "_" + stem(inputPath) + "_output.txt"
}

func stem(p string) string {
	base := filepath.Base(filepath.Clean(p))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
