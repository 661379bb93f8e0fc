// Command typestrings extracts words and word sequences from a text that a
// font can set within a given width range.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/pterm/pterm"

	"github.com/ryanlewis/typestrings"
	"github.com/ryanlewis/typestrings/internal/debug"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// copyToClipboard is replaced in tests; headless machines have no clipboard.
var copyToClipboard = clipboard.WriteAll

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var v flagValues
	fs := newFlagSet(&v)
	fs.SetOutput(stderr)

	errorPrinter := pterm.Error.WithWriter(stderr)
	warning := pterm.Warning.WithWriter(stderr)

	if err := fs.Parse(args); err != nil {
		errorPrinter.Println(err)
		return 1
	}

	if v.showHelp {
		printHelp(stdout, fs.FlagUsages())
		return 0
	}

	if v.showVersion {
		fmt.Fprintf(stdout, "typestrings version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	if fs.NArg() > 0 {
		errorPrinter.Printf("unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 1
	}

	cfg := &config{}
	if v.configPath != "" {
		loaded, err := loadConfig(v.configPath)
		if err != nil {
			errorPrinter.Println(err)
			return 1
		}
		cfg = loaded
	}
	merge(cfg, fs, &v)

	if err := checkRequired(cfg); err != nil {
		errorPrinter.Println(describe(err))
		printHelp(stderr, fs.FlagUsages())
		return 1
	}

	caseMode, err := typestrings.ParseCase(cfg.Case)
	if err != nil {
		errorPrinter.Println(err)
		return 1
	}
	if err := typestrings.ValidateOptions(selectOptions(cfg, nil, caseMode)...); err != nil {
		errorPrinter.Println(describe(err))
		return 1
	}

	text, err := os.ReadFile(cfg.Input)
	if err != nil {
		errorPrinter.Printf("The supplied text file could not be loaded: %v\n", err)
		return 1
	}

	font, err := typestrings.LoadFont(cfg.Font)
	if err != nil {
		errorPrinter.Printf("The supplied font could not be loaded. Supply a .ttf/.otf file or a .ufo directory: %v\n", err)
		return 1
	}

	var rules typestrings.Rules
	if cfg.Substitutions != "" {
		rf, err := typestrings.LoadRules(cfg.Substitutions)
		if err != nil {
			errorPrinter.Println(err)
			return 1
		}
		rules = rf.Rules
		if cfg.Verbose {
			for _, w := range rf.Warnings {
				warning.Printf("%s: %s\n", cfg.Substitutions, w)
			}
		}
	}

	// Setup debug if enabled
	debug.InitFromEnv()
	var session *debug.Session
	if v.debugMode || v.debugFile != "" || debug.Enabled() {
		debug.SetEnabled(true)

		var output = stderr
		if v.debugFile != "" {
			file, err := os.Create(v.debugFile)
			if err != nil {
				errorPrinter.Printf("Error creating debug file: %v\n", err)
				return 1
			}
			defer file.Close()
			output = file
		}

		// Create sink based on format preference
		var sink debug.Sink
		if v.debugPretty || debug.PrettyFromEnv() {
			sink = debug.NewPrettySink(output)
		} else {
			sink = debug.NewJSONSink(output)
		}

		session = debug.NewSession(sink)
		if session != nil {
			defer session.Close()
		}
	}

	opts := selectOptions(cfg, rules, caseMode)
	if session != nil {
		opts = append(opts, typestrings.WithDebug(session))
	}
	var bars *progressBars
	if !cfg.Quiet {
		bars = &progressBars{w: stderr}
		opts = append(opts, typestrings.WithProgress(bars.update))
	}

	res, err := typestrings.Select(string(text), font, opts...)
	bars.stop()
	if err != nil {
		session.Emit("select", "Error", debug.ErrorData{Type: errorType(err), Message: err.Error()})
		errorPrinter.Println(describe(err))
		return 1
	}

	lines := res.Strings()
	dest := cfg.Output
	if dest == "" {
		dest = defaultOutputPath(cfg.Font, cfg.Input)
	}
	if err := writeResults(dest, lines, stdout); err != nil {
		errorPrinter.Println(err)
		return 1
	}
	if cfg.Clipboard {
		if err := copyToClipboard(strings.Join(lines, "\n")); err != nil {
			errorPrinter.Printf("failed to copy to clipboard: %v\n", err)
			return 1
		}
	}

	if cfg.Verbose {
		printStats(stderr, cfg, font, res)
	}

	if len(lines) == 0 {
		warning.Println("No matching strings found.")
	}
	if dest != "-" {
		pterm.Success.WithWriter(stderr).Printf("%d matching strings written to %s\n", len(lines), dest)
	}
	return 0
}

func selectOptions(cfg *config, rules typestrings.Rules, c typestrings.Case) []typestrings.Option {
	opts := []typestrings.Option{
		typestrings.WithMaxResults(cfg.MaxResults),
		typestrings.WithSequences(cfg.Sequences),
		typestrings.WithNgrams(cfg.Combinations...),
		typestrings.WithPunctuationFilter(cfg.FilterPunct),
		typestrings.WithNumberFilter(cfg.FilterNumbers),
		typestrings.WithComposition(cfg.Compose),
		typestrings.WithCase(c),
		typestrings.WithWorkers(cfg.Workers),
	}
	if cfg.MaxWidth != nil {
		opts = append(opts, typestrings.WithMaxWidth(*cfg.MaxWidth))
	}
	if cfg.MinWidth != nil {
		opts = append(opts, typestrings.WithMinWidth(*cfg.MinWidth))
	}
	if cfg.Force != nil {
		opts = append(opts, typestrings.WithForcedCharset(*cfg.Force))
	}
	if len(rules) > 0 {
		opts = append(opts, typestrings.WithRules(rules))
	}
	return opts
}

// writeResults writes one entry per line to dest, or to stdout for "-".
func writeResults(dest string, lines []string, stdout io.Writer) error {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if dest == "-" {
		_, err := io.WriteString(stdout, sb.String())
		return err
	}
	if err := os.WriteFile(dest, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// checkRequired reports a missing text input or font path.
func checkRequired(cfg *config) error {
	switch {
	case cfg.Input == "":
		return fmt.Errorf("%w: text input", typestrings.ErrMissingInput)
	case cfg.Font == "":
		return fmt.Errorf("%w: font", typestrings.ErrMissingInput)
	}
	return nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, typestrings.ErrMissingInput):
		return "At least text input and font file need to be supplied."
	case errors.Is(err, typestrings.ErrInvalidBounds):
		return "min-width can not be set to be greater than or equal to max-width."
	case errors.Is(err, typestrings.ErrSequenceNeedsMax):
		return "Sequence mode needs a --max-width."
	default:
		return err.Error()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, typestrings.ErrMissingInput),
		errors.Is(err, typestrings.ErrInvalidBounds),
		errors.Is(err, typestrings.ErrSequenceNeedsMax):
		return "config"
	default:
		return "select"
	}
}

func printStats(w io.Writer, cfg *config, font *typestrings.Font, res *typestrings.Result) {
	s := res.Stats
	data := [][]string{
		{"Statistic", "Value"},
		{"Font", fmt.Sprintf("%s (%s, %d units/em)", font.Name, font.Format, font.UnitsPerEm)},
		{"Glyphs", fmt.Sprint(s.FontGlyphs)},
		{"Input words", fmt.Sprint(s.InputWords)},
		{"Unique words", fmt.Sprint(s.UniqueWords)},
		{"Valid words", fmt.Sprint(s.ValidWords)},
		{"Matches", fmt.Sprint(s.Matches)},
		{"Returned", fmt.Sprint(len(res.Entries))},
	}
	if len(res.Entries) > 0 {
		data = append(data, []string{"Width range", fmt.Sprintf("%d to %d", s.MinWidth, s.MaxWidth)})
	}
	data = append(data, []string{"Elapsed", s.Elapsed.Round(time.Millisecond).String()})
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()

	warning := pterm.Warning.WithWriter(w)
	if n := len(s.RejectedWords); n > 0 {
		warning.Printf("%d words skipped, missing characters: %s\n", n, typestrings.FormatRunes(s.MissingChars))
	}
	if len(s.UnmappedChars) > 0 {
		warning.Printf("Characters measured as zero width: %s\n", typestrings.FormatRunes(s.UnmappedChars))
	}
	for _, r := range s.DroppedRules {
		warning.Printf("Rule %s:%s dropped, glyph %q is not in the font\n", r.Pattern, r.Glyph, r.Glyph)
	}
	for _, d := range font.Duplicates() {
		warning.Printf("Duplicate codepoint: %s\n", d)
	}
	if cfg.Force != nil {
		pterm.Info.WithWriter(w).Printf("Forced character set: %q\n", *cfg.Force)
	}
}

// progressBars shows one bar per pipeline stage.
type progressBars struct {
	w     io.Writer
	stage typestrings.Stage
	bar   *pterm.ProgressbarPrinter
	done  int
}

func (p *progressBars) update(stage typestrings.Stage, done, total int) {
	if p.bar == nil || stage != p.stage {
		p.stop()
		bar, err := pterm.DefaultProgressbar.
			WithTotal(max(total, 1)).
			WithTitle(stage.String()).
			WithWriter(p.w).
			Start()
		if err != nil {
			return
		}
		p.stage, p.bar, p.done = stage, bar, 0
	}
	if done > p.done {
		p.bar.Add(done - p.done)
		p.done = done
	}
}

func (p *progressBars) stop() {
	if p == nil || p.bar == nil {
		return
	}
	_, _ = p.bar.Stop()
	p.bar = nil
}

func printHelp(w io.Writer, usages string) {
	fmt.Fprintln(w, "typestrings - find words and sequences of a given typeset width")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  typestrings -i <text file> -f <font> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, usages)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Widths are in font units and both bounds are exclusive.")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s=1         enable debug tracing\n", debug.EnvDebug)
	fmt.Fprintf(w, "  %s=1  pretty debug output\n", debug.EnvDebugPretty)
}
