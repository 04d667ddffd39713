package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	mdroles "github.com/alnah/go-mdroles"
	"github.com/alnah/go-mdroles/internal/config"
	"github.com/alnah/go-mdroles/internal/hints"
	"github.com/alnah/go-mdroles/internal/logging"
)

// ErrConversionFailed reports that at least one file failed.
var ErrConversionFailed = errors.New("conversion failed")

// newPool builds the pool used by runConvert. Replaced in tests.
var newPool = func(conv *mdroles.Converter, size int) (Pool, func() error) {
	p := mdroles.NewBuildPool(conv, size)
	return &poolAdapter{pool: p}, p.Close
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) (err error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	// Flags win over environment for worker count
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}

	log, err := newLogger(cfg.Log.Level, flags.common, env)
	if err != nil {
		return err
	}

	opts, err := mdroles.FromConfig(cfg)
	if err != nil {
		return err
	}
	conv, err := mdroles.NewConverter(append(opts, mdroles.WithLogger(log))...)
	if err != nil {
		return err
	}

	files, err := discoverFiles(positionalArgs, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %v", ErrNoMarkdownFiles, positionalArgs)
	}

	size := mdroles.ResolvePoolSize(workers)
	log.Debug("starting conversion", zap.Int("files", len(files)), zap.Int("workers", size))

	pool, closePool := newPool(conv, size)
	defer func() {
		err = multierr.Append(err, closePool())
	}()

	start := env.Now()
	results := convertBatch(ctx, pool, files, log)
	log.Debug("conversion finished", zap.Duration("took", env.Now().Sub(start).Round(time.Millisecond)))

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrConversionFailed, ctx.Err())
	}
	if failedCount > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrConversionFailed, failedCount, len(results))
	}
	return nil
}

// loadConfig loads the named config, or defaults when no name is given.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	setIf(&cfg.Output.Dir, flags.output)
	setIf(&cfg.Minify.Timeout, flags.timeout)
	setIf(&cfg.Wiki.BaseURL, flags.wikiBase)
	setIf(&cfg.Assets.Hash, flags.hash)
	setIf(&cfg.Log.Level, flags.logLevel)
	setIf(&cfg.Minify.Terser, flags.minify.terser)
	setIf(&cfg.Minify.CSSO, flags.minify.csso)

	if flags.standalone {
		cfg.Output.Standalone = true
	}
	if flags.markdown.hardWraps {
		cfg.Markdown.HardWraps = true
	}
	if flags.markdown.unsafe {
		cfg.Markdown.Unsafe = true
	}
	if flags.markdown.noHighlight {
		cfg.Markdown.Highlight = false
	}
}

// newLogger builds the console logger. --quiet forces warnings only and
// --verbose forces debug.
func newLogger(level string, common commonFlags, env *Environment) (*zap.Logger, error) {
	switch {
	case env.LogStream == nil:
		return zap.NewNop(), nil
	case common.verbose:
		level = logging.LevelDebug
	case common.quiet:
		level = logging.LevelWarn
	}
	return logging.New(level, env.LogStream)
}
