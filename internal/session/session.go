// Package session holds the mutable state shared by every role and directive
// handler during one build.
package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-mdroles/internal/abbr"
	"github.com/alnah/go-mdroles/internal/tagstack"
)

// Session is created fresh for each build and discarded when it ends.
type Session struct {
	ID   string
	Abbr *abbr.Tracker
	Tags *tagstack.Stack
	Log  *zap.Logger
}

// New returns an empty session. A nil logger is replaced by a no-op logger.
func New(log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		ID:   id,
		Abbr: abbr.NewTracker(),
		Tags: tagstack.New(),
		Log:  log.With(zap.String("session", id)),
	}
}

// Close reports tags left open by the build.
func (s *Session) Close() error {
	return s.Tags.Close()
}
