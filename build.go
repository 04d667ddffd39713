package mdroles

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-mdroles/internal/fileutil"
	"github.com/alnah/go-mdroles/internal/pipeline"
	"github.com/alnah/go-mdroles/internal/session"
)

// defaultDocument names documents converted without a path.
const defaultDocument = "index"

// Build converts a sequence of documents sharing one session: the same
// abbreviation state and tag stack are visible to every role and directive
// until the build is closed. Documents are converted one at a time.
type Build struct {
	mu      sync.Mutex
	conv    *Converter
	session *session.Session
	engine  *pipeline.Engine
	closed  bool
}

// NewBuild starts a build with a fresh session.
func (c *Converter) NewBuild() *Build {
	s := session.New(c.log)
	s.Log.Debug("build started")
	return &Build{conv: c, session: s, engine: c.engine()}
}

// ID returns the session identifier used in log entries.
func (b *Build) ID() string {
	return b.session.ID
}

// Convert renders one document. Role and directive handlers run in document
// order and the first failure aborts the document with a *ConstructError.
// Tags left open at the end of the document are closed and reported as
// ErrUnclosedTags. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (b *Build) Convert(ctx context.Context, input Input) (result *Result, err error) {
	if b == nil {
		return nil, ErrBuildClosed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBuildClosed
	}
	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	doc := pipeline.Document{ID: input.Path, Stem: fileutil.Stem(input.Path), Source: input.Markdown}
	if input.Path == "" {
		doc.ID, doc.Stem = defaultDocument, defaultDocument
	}

	rendered, err := b.engine.Render(ctx, b.session, doc)
	if err != nil {
		b.session.Tags.PopAll()
		return nil, err
	}

	if err := b.session.Tags.Close(); err != nil {
		b.session.Tags.PopAll()
		return nil, fmt.Errorf("%s: %w", doc.ID, err)
	}

	html := rendered.HTML
	if b.conv.cfg.standalone {
		html = pipeline.Standalone(doc.Stem, html)
	}

	b.session.Log.Debug("document converted",
		zap.String("document", doc.ID),
		zap.Int("assets", len(rendered.Assets)))
	return &Result{HTML: []byte(html), Assets: rendered.Assets}, nil
}

// Close ends the build. Converting after Close returns ErrBuildClosed.
func (b *Build) Close() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	err := b.session.Close()
	b.session.Log.Debug("build closed", zap.Error(err))
	return err
}
