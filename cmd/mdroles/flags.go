package main

import (
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// markdownFlags holds goldmark feature toggles.
type markdownFlags struct {
	hardWraps   bool
	unsafe      bool
	noHighlight bool
}

// minifyFlags holds external minifier flags.
type minifyFlags struct {
	terser string
	csso   string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	wikiBase   string
	hash       string
	logLevel   string
	standalone bool
	markdown   markdownFlags
	minify     minifyFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addMarkdownFlags adds markdown feature flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render newlines as <br>")
	fs.BoolVar(&f.unsafe, "unsafe", false, "pass raw HTML in markdown through")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable syntax highlighting")
}

// addMinifyFlags adds minifier flags to a FlagSet.
func addMinifyFlags(fs *flag.FlagSet, f *minifyFlags) {
	fs.StringVar(&f.terser, "terser", "", "terser executable")
	fs.StringVar(&f.csso, "csso", "", "csso executable")
}

// newConvertFlagSet registers every convert flag into a new FlagSet.
// Shared by parseConvertFlags and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory for HTML and assets")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "minifier timeout (e.g., 30s, 2m)")

	// Rendering flags
	fs.StringVar(&f.wikiBase, "wiki-base", "", "base URL for the wp role")
	fs.StringVar(&f.hash, "hash", "", "asset hash: sha256, blake3")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: none, debug, info, warn")
	fs.BoolVar(&f.standalone, "standalone", false, "write complete HTML documents")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addMarkdownFlags(fs, &f.markdown)
	addMinifyFlags(fs, &f.minify)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
