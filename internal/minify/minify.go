// Package minify drives the external script and style minifiers.
//
// Scripts go through terser twice. The first pass compresses and mangles
// while reserving the identifier "_" from mangling; the second pass only
// defines "_" as the empty string. Defining it in the first pass would let
// terser constant-fold the marker away before mangling had honoured the
// reservation, so the substitution is deferred to a pass of its own.
package minify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default tool names and timeout.
const (
	DefaultTerser  = "terser"
	DefaultCSSO    = "csso"
	DefaultTimeout = 30 * time.Second
)

// Marker is the identifier reserved in the first pass and blanked in the second.
const Marker = "_"

// ErrFailed indicates that an external minifier failed.
var ErrFailed = errors.New("minification failed")

var (
	commonArgs = []string{"--safari10", "--ecma", "5"}
	pass1Args  = []string{
		"--compress", "passes=2",
		"--mangle", "reserved=" + Marker,
		"--mangle-props", "regex=/^_.+/",
	}
	pass2Args = []string{"--define", Marker + `=""`}
)

// Define is a symbolic substitution passed to terser as --define.
type Define struct {
	Name  string
	Value string
}

// String formats the define as "name" or "name=value".
func (d Define) String() string {
	if d.Value == "" {
		return d.Name
	}
	return d.Name + "=" + d.Value
}

// ParseDefines splits a comma-separated "key[=value]" list. Empty items are skipped.
func ParseDefines(s string) []Define {
	var defs []Define
	for _, item := range strings.Split(s, ",") {
		if item == "" {
			continue
		}
		name, value, _ := strings.Cut(item, "=")
		defs = append(defs, Define{Name: name, Value: value})
	}
	return defs
}

// Minifier runs terser and csso through a Runner.
type Minifier struct {
	runner  Runner
	terser  string
	csso    string
	timeout time.Duration
	log     *zap.Logger
}

// Option configures a Minifier.
type Option func(*Minifier)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(m *Minifier) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithTerser sets the terser executable.
func WithTerser(path string) Option {
	return func(m *Minifier) {
		if path != "" {
			m.terser = path
		}
	}
}

// WithCSSO sets the csso executable.
func WithCSSO(path string) Option {
	return func(m *Minifier) {
		if path != "" {
			m.csso = path
		}
	}
}

// WithTimeout bounds each tool invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(m *Minifier) {
		m.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Minifier) {
		if log != nil {
			m.log = log
		}
	}
}

// New returns a Minifier using the real executables.
func New(opts ...Option) *Minifier {
	m := &Minifier{
		runner:  &ExecRunner{},
		terser:  DefaultTerser,
		csso:    DefaultCSSO,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("minify")
	return m
}

// ScriptArgs returns the argument lists for both terser passes.
func ScriptArgs(src []byte, defines []Define, enclose Enclose) (first, second []string) {
	first = append(append([]string{}, commonArgs...), pass1Args...)
	for _, d := range defines {
		first = append(first, "--define", d.String())
	}
	if pairs, ok := enclose.Resolve(src); ok {
		first = append(first, "--enclose", Arg(pairs))
	}

	second = append(append([]string{}, commonArgs...), pass2Args...)
	return first, second
}

// MinifyScript runs both terser passes. Either pass failing is fatal.
func (m *Minifier) MinifyScript(ctx context.Context, src []byte, defines []Define, enclose Enclose) ([]byte, error) {
	first, second := ScriptArgs(src, defines, enclose)

	out, err := m.run(ctx, 1, src, m.terser, first)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, 2, out, m.terser, second)
}

// MinifyStyle runs csso once and trims the result.
func (m *Minifier) MinifyStyle(ctx context.Context, src []byte) ([]byte, error) {
	out, err := m.run(ctx, 1, src, m.csso, nil)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(out), nil
}

func (m *Minifier) run(ctx context.Context, pass int, input []byte, tool string, args []string) ([]byte, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := m.runner.Run(ctx, input, tool, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s pass %d: %w: %s", ErrFailed, tool, pass, err, strings.TrimSpace(string(stderr)))
	}

	m.log.Debug("minifier pass",
		zap.String("tool", tool),
		zap.Int("pass", pass),
		zap.Int("in", len(input)),
		zap.Int("out", len(stdout)),
		zap.Duration("took", time.Since(start)))
	return stdout, nil
}
