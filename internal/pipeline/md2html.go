package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdroles/internal/directives"
	"github.com/alnah/go-mdroles/internal/htmlemit"
	"github.com/alnah/go-mdroles/internal/roles"
	"github.com/alnah/go-mdroles/internal/session"
)

// htmlTemplate wraps the fragment in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// Options selects goldmark features.
type Options struct {
	HardWraps bool
	Unsafe    bool
	Highlight bool
}

// Document is one source file to render.
type Document struct {
	// ID keys per-document state such as abbreviations.
	ID string
	// Stem names the directory of assets generated from this document.
	Stem   string
	Source string
}

// Rendered is the HTML fragment of a document and the asset URLs it references.
type Rendered struct {
	HTML   string
	Assets []string
}

type docState struct {
	ctx     context.Context
	session *session.Session
	doc     Document
	assets  []string
}

// Engine converts Markdown with roles and directives to HTML. An Engine
// renders one document at a time and is not safe for concurrent use.
type Engine struct {
	md         goldmark.Markdown
	roles      *roles.Registry
	directives *directives.Registry
	state      *docState
}

// NewEngine builds a goldmark instance wired to the given registries.
func NewEngine(r *roles.Registry, d *directives.Registry, opts Options) *Engine {
	e := &Engine{roles: r, directives: d}

	exts := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
		&constructs{e: e},
	}
	if opts.Highlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}

	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	e.md = goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return e
}

// Render converts doc within session s. Handlers run in document order;
// the first handler error aborts the document.
func (e *Engine) Render(ctx context.Context, s *session.Session, doc Document) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.state = &docState{ctx: ctx, session: s, doc: doc}
	defer func() { e.state = nil }()

	out, err := e.convert(Preprocess(doc.Source))
	if err != nil {
		return nil, err
	}
	return &Rendered{HTML: out, Assets: e.state.assets}, nil
}

// convert runs goldmark on src. Directives call it for nested content.
func (e *Engine) convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(src), &buf); err != nil {
		var ce *ConstructError
		if errors.As(err, &ce) || e.state.ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}

// Standalone wraps an HTML fragment in a complete document.
func Standalone(title, body string) string {
	return fmt.Sprintf(htmlTemplate, htmlemit.EscapeText(title), body)
}

// constructs registers the role parser, directive transformer and renderer.
type constructs struct {
	e *Engine
}

func (c *constructs) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&roleParser{roles: c.e.roles}, 100)),
		parser.WithASTTransformers(util.Prioritized(&directiveTransformer{directives: c.e.directives}, 100)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{e: c.e}, 100)),
	)
}
