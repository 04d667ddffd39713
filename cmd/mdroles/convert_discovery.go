package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"

	mdroles "github.com/alnah/go-mdroles"
	"github.com/alnah/go-mdroles/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files under inputs. Files are returned in
// natural order ("ch2.md" before "ch10.md") so batch output is stable and
// abbreviation state is consumed in reading order.
func discoverFiles(inputs []string, outputDir string) ([]FileToConvert, error) {
	seen := make(map[string]bool)
	var files []FileToConvert

	add := func(path, base string) {
		if seen[path] {
			return
		}
		seen[path] = true
		files = append(files, FileToConvert{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, base)})
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(input); err != nil {
				return nil, err
			}
			add(input, "")
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !fileutil.IsMarkdown(path) {
				return nil
			}
			add(path, input)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		return natural.Less(files[i].InputPath, files[j].InputPath)
	})
	return files, nil
}

// resolveOutputPath determines the HTML output path for a markdown file.
// Files found under a directory keep their relative location.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	name := fileutil.Stem(inputPath) + ".html"

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdroles.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdroles.MaxPoolSize)
	}
	return nil
}
