package mdroles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var scriptURL = regexp.MustCompile(`^/hello_/[0-9a-f]{20}\.min\.js$`)

// ---------------------------------------------------------------------------
// TestBuild_Convert - End-to-end through the public API
// ---------------------------------------------------------------------------

func TestBuild_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "plain markdown",
			markdown: "# Title\n\nSome *text*.",
			want:     "<h1 id=\"title\">Title</h1>\n<p>Some <em>text</em>.</p>\n",
		},
		{
			name:     "tag role",
			markdown: "Press {kbd}`Ctrl+C`.",
			want:     "<p>Press <kbd>Ctrl+C</kbd>.</p>\n",
		},
		{
			name:     "ordinal",
			markdown: "The {ord}`22` edition.",
			want:     "<p>The 22<sup>nd</sup> edition.</p>\n",
		},
		{
			name:     "balanced push and pop",
			markdown: "{push}`b`bold{pop}`1`",
			want:     "<p><b>bold</b></p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := newTestConverter(t).NewBuild()
			defer b.Close()

			res, err := b.Convert(context.Background(), Input{Path: "a.md", Markdown: tt.markdown})
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if string(res.HTML) != tt.want {
				t.Errorf("HTML = %q\nwant %q", res.HTML, tt.want)
			}
		})
	}
}

func TestBuild_Convert_Validation(t *testing.T) {
	t.Parallel()

	b := newTestConverter(t).NewBuild()

	if _, err := b.Convert(context.Background(), Input{Path: "a.md"}); !errors.Is(err, ErrEmptyMarkdown) {
		t.Errorf("empty markdown error = %v, want ErrEmptyMarkdown", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := b.Convert(context.Background(), Input{Markdown: "x"}); !errors.Is(err, ErrBuildClosed) {
		t.Errorf("after Close error = %v, want ErrBuildClosed", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Abbreviations - State is per document within one build
// ---------------------------------------------------------------------------

func TestBuild_Abbreviations(t *testing.T) {
	t.Parallel()

	b := newTestConverter(t).NewBuild()
	defer b.Close()

	ctx := context.Background()
	src := "{abbr}`HTML (HyperText Markup Language)` and {abbr}`HTML`"

	for _, path := range []string{"one.md", "two.md"} {
		res, err := b.Convert(ctx, Input{Path: path, Markdown: src})
		if err != nil {
			t.Fatalf("%s: Convert() error = %v", path, err)
		}
		html := string(res.HTML)
		if n := strings.Count(html, "<span"); n != 1 {
			t.Errorf("%s: annotated occurrences = %d, want 1\n%s", path, n, html)
		}
		if n := strings.Count(html, "<abbr"); n != 2 {
			t.Errorf("%s: abbr elements = %d, want 2", path, n)
		}
	}

	_, err := b.Convert(ctx, Input{Path: "one.md", Markdown: "{abbr}`HTML (Hot Tamale Markup Language)`"})
	if !errors.Is(err, ErrInconsistentAbbreviation) {
		t.Errorf("conflicting title error = %v, want ErrInconsistentAbbreviation", err)
	}
}

func TestBuild_SeparateBuildsDoNotShareState(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	ctx := context.Background()

	first := c.NewBuild()
	defer first.Close()
	if _, err := first.Convert(ctx, Input{Path: "a.md", Markdown: "{abbr}`CSS (Cascading Style Sheets)`"}); err != nil {
		t.Fatal(err)
	}

	second := c.NewBuild()
	defer second.Close()
	_, err := second.Convert(ctx, Input{Path: "a.md", Markdown: "{abbr}`CSS`"})
	if !errors.Is(err, ErrMalformedRole) {
		t.Errorf("unknown abbreviation in a new build: error = %v, want ErrMalformedRole", err)
	}
	if first.ID() == second.ID() {
		t.Error("builds should have distinct session ids")
	}
}

// ---------------------------------------------------------------------------
// TestBuild_UnclosedTags
// ---------------------------------------------------------------------------

func TestBuild_UnclosedTags(t *testing.T) {
	t.Parallel()

	b := newTestConverter(t).NewBuild()
	defer b.Close()

	ctx := context.Background()
	_, err := b.Convert(ctx, Input{Path: "open.md", Markdown: "{push}`div`text"})
	if !errors.Is(err, ErrUnclosedTags) {
		t.Fatalf("error = %v, want ErrUnclosedTags", err)
	}
	if !strings.Contains(err.Error(), "open.md") || !strings.Contains(err.Error(), "div") {
		t.Errorf("error %q should name the document and tag", err)
	}
	if KindOf(err) != KindUnclosedTags {
		t.Errorf("KindOf() = %v", KindOf(err))
	}

	if _, err := b.Convert(ctx, Input{Path: "next.md", Markdown: "fine"}); err != nil {
		t.Errorf("next document should start with an empty stack: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Assets - Scripts are externalized under the output directory
// ---------------------------------------------------------------------------

func TestBuild_Assets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &echoRunner{}
	b := newTestConverter(t, WithOutputDir(dir), WithRunner(runner)).NewBuild()
	defer b.Close()

	src := "Intro\n\n```{script}\nconsole.log(1)\n```\n"
	res, err := b.Convert(context.Background(), Input{Path: "posts/hello.md", Markdown: src})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(res.Assets) != 1 || !scriptURL.MatchString(res.Assets[0]) {
		t.Fatalf("Assets = %v", res.Assets)
	}
	if !strings.Contains(string(res.HTML), res.Assets[0]) {
		t.Errorf("HTML should reference %s:\n%s", res.Assets[0], res.HTML)
	}
	if len(runner.tools) != 2 {
		t.Errorf("minifier calls = %d, want 2 passes", len(runner.tools))
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Assets[0])))
	if err != nil {
		t.Fatalf("asset not written: %v", err)
	}
	if string(data) != "console.log(1)" {
		t.Errorf("asset content = %q", data)
	}
}

func TestBuild_MinificationFailure(t *testing.T) {
	t.Parallel()

	runner := &echoRunner{err: errors.New("exit status 1")}
	b := newTestConverter(t, WithRunner(runner)).NewBuild()
	defer b.Close()

	src := "```{style}\na { color: red }\n```\n"
	_, err := b.Convert(context.Background(), Input{Path: "page.md", Markdown: src})
	if !errors.Is(err, ErrMinificationFailed) {
		t.Fatalf("error = %v, want ErrMinificationFailed", err)
	}

	var ce *ConstructError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a *ConstructError", err)
	}
	if ce.Construct != "directive" || ce.Name != "style" || ce.Document != "page.md" || ce.Line != 1 {
		t.Errorf("ConstructError = %+v", ce)
	}
}

// ---------------------------------------------------------------------------
// TestBuild_Standalone
// ---------------------------------------------------------------------------

func TestBuild_Standalone(t *testing.T) {
	t.Parallel()

	b := newTestConverter(t, WithStandalone(true)).NewBuild()
	defer b.Close()

	res, err := b.Convert(context.Background(), Input{Path: "notes/week-1.md", Markdown: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	html := string(res.HTML)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("missing doctype:\n%s", html)
	}
	if !strings.Contains(html, "<title>week-1</title>") || !strings.Contains(html, "<p>hi</p>") {
		t.Errorf("unexpected document:\n%s", html)
	}
}

func TestBuild_DefaultDocumentName(t *testing.T) {
	t.Parallel()

	b := newTestConverter(t).NewBuild()
	defer b.Close()

	_, err := b.Convert(context.Background(), Input{Markdown: "{ord}`x`"})
	var ce *ConstructError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConstructError", err)
	}
	if ce.Document != defaultDocument {
		t.Errorf("Document = %q, want %q", ce.Document, defaultDocument)
	}
}

func TestBuild_Canceled(t *testing.T) {
	t.Parallel()

	b := newTestConverter(t).NewBuild()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Convert(ctx, Input{Markdown: "x"})
	if KindOf(err) != KindCanceled {
		t.Errorf("KindOf(%v) = %v, want KindCanceled", err, KindOf(err))
	}
}
