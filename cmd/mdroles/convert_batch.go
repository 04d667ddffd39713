package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	mdroles "github.com/alnah/go-mdroles"
	"github.com/alnah/go-mdroles/internal/fileutil"
	"github.com/alnah/go-mdroles/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write HTML file")
)

// CLIConverter is the interface for converting one document.
type CLIConverter interface {
	Convert(ctx context.Context, input mdroles.Input) (*mdroles.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdroles.Build)(nil)

// Pool abstracts build pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
}

// poolAdapter exposes a *mdroles.BuildPool as a Pool.
type poolAdapter struct {
	pool *mdroles.BuildPool
}

func (a *poolAdapter) Acquire() CLIConverter {
	return a.pool.Acquire()
}

func (a *poolAdapter) Release(c CLIConverter) {
	b, ok := c.(*mdroles.Build)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(b)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Assets     []string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the build pool. Each
// worker holds one build for its whole lifetime.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, log *zap.Logger) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx])
				if r := results[idx]; r.Err == nil {
					log.Info("converted",
						zap.String("input", r.InputPath),
						zap.String("output", r.OutputPath),
						zap.Int("assets", len(r.Assets)),
						zap.Duration("took", r.Duration))
				}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	finish := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	res, err := conv.Convert(ctx, mdroles.Input{Path: f.InputPath, Markdown: string(content)})
	if err != nil {
		return finish(err)
	}
	result.Assets = res.Assets

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, outDir, err))
	}
	if err := fileutil.WriteAtomic(outDir, filepath.Base(f.OutputPath), res.HTML, filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	return finish(nil)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// hintFor returns an actionable hint for a per-file failure, if any.
func hintFor(err error) string {
	var execErr *exec.Error
	switch {
	case errors.As(err, &execErr):
		return hints.ForMinifierNotFound(execErr.Name)
	case errors.Is(err, mdroles.ErrMinificationFailed) && errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdroles.ErrUnclosedTags):
		return hints.ForUnclosedTags()
	case errors.Is(err, mdroles.ErrInconsistentAbbreviation):
		return hints.ForInconsistentAbbreviation()
	case errors.Is(err, ErrWriteOutput), errors.Is(err, mdroles.ErrAssetWriteFailed):
		return hints.ForOutputDirectory()
	}
	return ""
}

// printResultsWithWriter outputs conversion results and returns the failure count.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d assets, %v)\n", r.InputPath, r.OutputPath, len(r.Assets), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
