package main

// Notes:
// - convertBatch: exercised with a fake Pool so results do not depend on
//   the rendering engine. The real pool is covered by TestRunMain_Convert.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	mdroles "github.com/alnah/go-mdroles"
	"github.com/alnah/go-mdroles/internal/tagstack"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pool and converter
// ---------------------------------------------------------------------------

type fakeConverter struct {
	calls atomic.Int32
	fn    func(mdroles.Input) (*mdroles.Result, error)
}

func (f *fakeConverter) Convert(_ context.Context, in mdroles.Input) (*mdroles.Result, error) {
	f.calls.Add(1)
	if f.fn != nil {
		return f.fn(in)
	}
	return &mdroles.Result{HTML: []byte("<p>" + in.Markdown + "</p>")}, nil
}

type fakePool struct {
	conv     CLIConverter
	size     int
	acquired atomic.Int32
	released atomic.Int32
}

func (p *fakePool) Acquire() CLIConverter {
	p.acquired.Add(1)
	return p.conv
}

func (p *fakePool) Release(CLIConverter) { p.released.Add(1) }

func (p *fakePool) Size() int { return p.size }

// ---------------------------------------------------------------------------
// TestConvertBatch
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToConvert
	for i := 0; i < 5; i++ {
		in := filepath.Join(dir, fmt.Sprintf("doc%d.md", i))
		writeFile(t, in, fmt.Sprintf("body %d", i))
		files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "out", fmt.Sprintf("doc%d.html", i))})
	}

	conv := &fakeConverter{}
	pool := &fakePool{conv: conv, size: 2}

	results := convertBatch(context.Background(), pool, files, zaptest.NewLogger(t))
	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("results[%d] out of order: %s", i, r.InputPath)
		}
		data, err := os.ReadFile(files[i].OutputPath)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if want := fmt.Sprintf("<p>body %d</p>", i); string(data) != want {
			t.Errorf("output[%d] = %q, want %q", i, data, want)
		}
	}

	if got := conv.calls.Load(); got != 5 {
		t.Errorf("Convert calls = %d, want 5", got)
	}
	if a, r := pool.acquired.Load(), pool.released.Load(); a != 2 || r != 2 {
		t.Errorf("acquired/released = %d/%d, want 2/2 (one build per worker)", a, r)
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	pool := &fakePool{conv: &fakeConverter{}, size: 2}
	if results := convertBatch(context.Background(), pool, nil, zaptest.NewLogger(t)); results != nil {
		t.Errorf("results = %v, want nil", results)
	}
	if pool.acquired.Load() != 0 {
		t.Error("empty batch must not acquire builds")
	}
}

func TestConvertBatch_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "a.md")
	writeFile(t, in, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{}
	results := convertBatch(ctx, &fakePool{conv: conv, size: 1},
		[]FileToConvert{{InputPath: in, OutputPath: filepath.Join(dir, "a.html")}}, zaptest.NewLogger(t))

	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", results[0].Err)
	}
	if conv.calls.Load() != 0 {
		t.Error("canceled batch must not convert")
	}
}

// ---------------------------------------------------------------------------
// TestConvertFile - Per-file errors
// ---------------------------------------------------------------------------

func TestConvertFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "a.md")
	writeFile(t, in, "a")
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "x")

	convErr := errors.New("render failed")
	tests := []struct {
		name    string
		file    FileToConvert
		conv    *fakeConverter
		wantErr error
	}{
		{
			name:    "missing input",
			file:    FileToConvert{InputPath: filepath.Join(dir, "missing.md"), OutputPath: filepath.Join(dir, "m.html")},
			conv:    &fakeConverter{},
			wantErr: ErrReadMarkdown,
		},
		{
			name: "converter error",
			file: FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "a.html")},
			conv: &fakeConverter{fn: func(mdroles.Input) (*mdroles.Result, error) {
				return nil, convErr
			}},
			wantErr: convErr,
		},
		{
			name:    "output dir is a file",
			file:    FileToConvert{InputPath: in, OutputPath: filepath.Join(blocker, "a.html")},
			conv:    &fakeConverter{},
			wantErr: ErrWriteOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := convertFile(context.Background(), tt.conv, tt.file)
			if !errors.Is(r.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", r.Err, tt.wantErr)
			}
		})
	}
}

func TestConvertFile_PassesPathAndAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "post.md")
	writeFile(t, in, "body")

	var gotPath string
	conv := &fakeConverter{fn: func(input mdroles.Input) (*mdroles.Result, error) {
		gotPath = input.Path
		return &mdroles.Result{HTML: []byte("x"), Assets: []string{"/post_/abc.min.js"}}, nil
	}}

	r := convertFile(context.Background(), conv, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "post.html")})
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if gotPath != in {
		t.Errorf("Input.Path = %q, want %q", gotPath, in)
	}
	if len(r.Assets) != 1 || r.Assets[0] != "/post_/abc.min.js" {
		t.Errorf("Assets = %v", r.Assets)
	}
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Real pool wrapper
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	conv, err := mdroles.NewConverter(mdroles.WithOutputDir(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	pool := mdroles.NewBuildPool(conv, 2)
	defer pool.Close()

	adapter := &poolAdapter{pool: pool}
	if adapter.Size() != 2 {
		t.Errorf("Size() = %d, want 2", adapter.Size())
	}

	b := adapter.Acquire()
	res, err := b.Convert(context.Background(), mdroles.Input{Markdown: "{kbd}`K`"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(res.HTML), "<kbd>K</kbd>") {
		t.Errorf("HTML = %q", res.HTML)
	}
	adapter.Release(b)
}

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	conv, err := mdroles.NewConverter()
	if err != nil {
		t.Fatal(err)
	}
	pool := mdroles.NewBuildPool(conv, 1)
	defer pool.Close()

	adapter := &poolAdapter{pool: pool}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for wrong type, got none")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "unexpected type") {
			t.Errorf("panic = %v, want message containing 'unexpected type'", r)
		}
	}()

	adapter.Release(&fakeConverter{})
}

// ---------------------------------------------------------------------------
// TestPrintResults - Summary and hints
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "public/a.html", Duration: time.Millisecond},
		{InputPath: "b.md", Err: fmt.Errorf("b.md: %w", tagstack.ErrUnclosed)},
	}

	env, stdout, stderr := testEnv()
	failed := printResultsWithWriter(results, false, false, env)
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if !strings.Contains(stdout.String(), "Created public/a.html") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stdout.String(), "1 succeeded, 1 failed") {
		t.Errorf("stdout = %q, want summary", stdout)
	}
	if !strings.Contains(stderr.String(), "FAILED b.md") || !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want failure with hint", stderr)
	}

	env, stdout, _ = testEnv()
	printResultsWithWriter(results, true, false, env)
	if stdout.Len() != 0 {
		t.Errorf("quiet stdout = %q, want empty", stdout)
	}

	env, stdout, _ = testEnv()
	printResultsWithWriter(results[:1], false, true, env)
	if !strings.Contains(stdout.String(), "a.md -> public/a.html (0 assets") {
		t.Errorf("verbose stdout = %q", stdout)
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"missing minifier", fmt.Errorf("%w: %w", mdroles.ErrMinificationFailed, &exec.Error{Name: "terser", Err: exec.ErrNotFound}), true},
		{"timeout", fmt.Errorf("%w: %w", mdroles.ErrMinificationFailed, context.DeadlineExceeded), true},
		{"unclosed", mdroles.ErrUnclosedTags, true},
		{"abbreviation", mdroles.ErrInconsistentAbbreviation, true},
		{"write output", ErrWriteOutput, true},
		{"asset write", mdroles.ErrAssetWriteFailed, true},
		{"malformed role", mdroles.ErrMalformedRole, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if (got != "") != tt.wantHint {
				t.Errorf("hintFor(%v) = %q, wantHint %v", tt.err, got, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert_PoolCloseError - Close errors reach the caller
// ---------------------------------------------------------------------------

func TestRunConvert_PoolCloseError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.md")
	writeFile(t, in, "a")

	closeErr := errors.New("close failed")
	orig := newPool
	newPool = func(*mdroles.Converter, int) (Pool, func() error) {
		return &fakePool{conv: &fakeConverter{}, size: 1}, func() error { return closeErr }
	}
	t.Cleanup(func() { newPool = orig })

	env, _, _ := testEnv()
	flags := &convertFlags{output: filepath.Join(dir, "out")}
	err := runConvert(context.Background(), []string{in}, flags, env)
	if !errors.Is(err, closeErr) {
		t.Errorf("error = %v, want close error", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out", "a.html")); statErr != nil {
		t.Errorf("output not written: %v", statErr)
	}
}
