package mdroles

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-mdroles/internal/asset"
	"github.com/alnah/go-mdroles/internal/config"
	"github.com/alnah/go-mdroles/internal/directives"
	"github.com/alnah/go-mdroles/internal/minify"
	"github.com/alnah/go-mdroles/internal/pipeline"
	"github.com/alnah/go-mdroles/internal/roles"
)

// Compile-time interface implementation checks.
var (
	_ directives.Minifier   = (*minify.Minifier)(nil)
	_ directives.AssetStore = (*asset.Store)(nil)
	_ Runner                = (*minify.ExecRunner)(nil)
)

// Converter holds the registries and asset pipeline shared by builds.
// Create with NewConverter and start a Build for each batch of documents.
// A Converter is safe for concurrent use; its builds are not shared.
type Converter struct {
	cfg        converterConfig
	log        *zap.Logger
	roles      *roles.Registry
	directives *directives.Registry
	store      *asset.Store
}

// NewConverter creates a Converter with default configuration.
// Returns ErrInvalidOption if an option value is out of range.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			outputDir: DefaultOutputDir,
			wikiBase:  roles.DefaultWikiBase,
			hash:      HashSHA256,
			terser:    minify.DefaultTerser,
			csso:      minify.DefaultCSSO,
			timeout:   defaultTimeout,
			highlight: true,
		},
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	hash, err := asset.ParseHash(c.cfg.hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if !strings.HasSuffix(c.cfg.wikiBase, "/") {
		return nil, fmt.Errorf("%w: wiki base %q must end with '/'", ErrInvalidOption, c.cfg.wikiBase)
	}

	c.store = asset.NewStore(c.cfg.outputDir, asset.WithHash(hash), asset.WithLogger(c.log))
	m := minify.New(
		minify.WithRunner(c.cfg.runner),
		minify.WithTerser(c.cfg.terser),
		minify.WithCSSO(c.cfg.csso),
		minify.WithTimeout(c.cfg.timeout),
		minify.WithLogger(c.log),
	)

	c.roles = roles.Default(roles.Options{WikiBase: c.cfg.wikiBase})
	c.directives = directives.Default(directives.Deps{Minifier: m, Assets: c.store})
	return c, nil
}

// FromConfig returns the options equivalent to cfg. The logger is not
// part of the file configuration and must be passed separately.
func FromConfig(cfg *config.Config) ([]Option, error) {
	timeout, err := cfg.Minify.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	opts := []Option{
		WithOutputDir(cfg.Output.Dir),
		WithWikiBase(cfg.Wiki.BaseURL),
		WithHash(cfg.Assets.Hash),
		WithTerser(cfg.Minify.Terser),
		WithCSSO(cfg.Minify.CSSO),
		WithMarkdown(cfg.Markdown.HardWraps, cfg.Markdown.Unsafe, cfg.Markdown.Highlight),
		WithStandalone(cfg.Output.Standalone),
	}
	if timeout > 0 {
		opts = append(opts, WithTimeout(timeout))
	}
	return opts, nil
}

// OutputDir returns the asset root directory.
func (c *Converter) OutputDir() string {
	return c.cfg.outputDir
}

// Roles returns the registered role names in sorted order.
func (c *Converter) Roles() []string {
	return c.roles.Names()
}

// Directives returns the registered directive names in sorted order.
func (c *Converter) Directives() []string {
	return c.directives.Names()
}

func (c *Converter) engine() *pipeline.Engine {
	return pipeline.NewEngine(c.roles, c.directives, pipeline.Options{
		HardWraps: c.cfg.hardWraps,
		Unsafe:    c.cfg.unsafe,
		Highlight: c.cfg.highlight,
	})
}
