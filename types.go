package mdroles

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-mdroles/internal/minify"
)

// Hash algorithm names accepted by WithHash.
const (
	HashSHA256 = "sha256"
	HashBLAKE3 = "blake3"
)

// DefaultOutputDir is the asset root used when none is configured.
const DefaultOutputDir = "public"

// defaultTimeout bounds each minifier invocation.
const defaultTimeout = minify.DefaultTimeout

// Input is one document to convert.
type Input struct {
	Path     string // Source path; keys per-document state and names the asset directory (optional)
	Markdown string // Markdown content (required)
}

// Result is the HTML produced for one document.
type Result struct {
	HTML   []byte   // HTML fragment, or a full document with WithStandalone
	Assets []string // URLs of externalized assets, in document order
}

// Runner executes external minifiers. See WithRunner.
type Runner = minify.Runner

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	outputDir  string
	wikiBase   string
	hash       string
	terser     string
	csso       string
	timeout    time.Duration
	runner     Runner
	hardWraps  bool
	unsafe     bool
	highlight  bool
	standalone bool
}

// WithOutputDir sets the root directory for externalized assets.
// Empty string values leave the default in place for this and the
// other string options.
func WithOutputDir(dir string) Option {
	return func(c *Converter) {
		if dir != "" {
			c.cfg.outputDir = dir
		}
	}
}

// WithWikiBase sets the base URL of the wp role. It must end with "/".
func WithWikiBase(url string) Option {
	return func(c *Converter) {
		if url != "" {
			c.cfg.wikiBase = url
		}
	}
}

// WithHash selects the asset naming digest, "sha256" or "blake3".
func WithHash(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.cfg.hash = name
		}
	}
}

// WithTerser sets the terser executable.
func WithTerser(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.cfg.terser = path
		}
	}
}

// WithCSSO sets the csso executable.
func WithCSSO(path string) Option {
	return func(c *Converter) {
		if path != "" {
			c.cfg.csso = path
		}
	}
}

// WithTimeout bounds each minifier invocation.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdroles: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithRunner replaces the subprocess runner used for minification.
func WithRunner(r Runner) Option {
	return func(c *Converter) {
		c.cfg.runner = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMarkdown sets goldmark renderer features. Highlighting colors
// fenced code with CSS classes.
func WithMarkdown(hardWraps, unsafe, highlight bool) Option {
	return func(c *Converter) {
		c.cfg.hardWraps = hardWraps
		c.cfg.unsafe = unsafe
		c.cfg.highlight = highlight
	}
}

// WithStandalone wraps each result in a complete HTML document.
func WithStandalone(on bool) Option {
	return func(c *Converter) {
		c.cfg.standalone = on
	}
}
