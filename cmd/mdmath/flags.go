package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	debug   bool
}

// mathFlags holds math stage flags.
type mathFlags struct {
	engine   string
	packages []string
	strict   bool
}

// markdownFlags holds markdown stage flags.
type markdownFlags struct {
	noRawHTML      bool
	hardWraps      bool
	sanitize       bool
	noHighlight    bool
	highlightStyle string
}

// pageFlags holds host page flags for page and browser modes.
type pageFlags struct {
	template  string // host page name or path
	selector  string
	display   string
	assetPath string // override asset directory
}

// outputFlags holds output form flags.
type outputFlags struct {
	mode       string
	noFallback bool
	stdin      bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common   commonFlags
	output   string
	workers  int
	timeout  string
	math     mathFlags
	markdown markdownFlags
	page     pageFlags
	out      outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.debug, "debug", false, "show pipeline trace logs")
}

// addMathFlags adds math stage flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVar(&f.engine, "engine", "", "math engine: mathml, tex")
	fs.StringSliceVar(&f.packages, "packages", nil, "TeX packages (comma-separated): base, ams, color, cancel")
	fs.BoolVar(&f.strict, "strict", false, "fail on unterminated math delimiters")
}

// addMarkdownFlags adds markdown stage flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.BoolVar(&f.noRawHTML, "no-raw-html", false, "escape raw HTML found in markdown")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render newlines as line breaks")
	fs.BoolVar(&f.sanitize, "sanitize", false, "sanitize HTML before typesetting math")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code highlighting")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
}

// addPageFlags adds host page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.template, "template", "", "host page name or path")
	fs.StringVar(&f.selector, "selector", "", "container selector in the host page")
	fs.StringVar(&f.display, "display", "", "display value set on the container")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/ and templates/")
}

// addOutputFlags adds output form flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVar(&f.mode, "mode", "", "output mode: fragment, page, browser")
	fs.BoolVar(&f.noFallback, "no-fallback", false, "write nothing when rendering fails")
	fs.BoolVar(&f.stdin, "stdin", false, "read markdown from stdin, write to stdout")
}

// newRenderFlagSet registers every render flag on a new FlagSet.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser page timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addMathFlags(fs, &f.math)
	addMarkdownFlags(fs, &f.markdown)
	addPageFlags(fs, &f.page)
	addOutputFlags(fs, &f.out)

	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.Usage = func() { printRenderUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
