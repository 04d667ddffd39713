// Package tagstack keeps a LIFO stack of opened HTML tags so that markup
// can open several elements in one place and close them in another.
package tagstack

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-mdroles/internal/htmlemit"
)

// Sentinel errors for stack operations.
var (
	ErrUnderflow = errors.New("tag stack underflow")
	ErrUnclosed  = errors.New("unclosed tags")
)

// Stack is a stack of open tag names. Safe for concurrent use, but the
// nesting it records only makes sense for sequential callers.
type Stack struct {
	mu   sync.Mutex
	tags []string
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{}
}

// Push opens each tag in order and returns the concatenated start tags.
func (s *Stack) Push(names ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, name := range names {
		b.WriteString(htmlemit.StartTag(name))
		s.tags = append(s.tags, name)
	}
	return b.String()
}

// Pop closes the n most recently opened tags, innermost first.
// The stack is left untouched when n exceeds its depth.
func (s *Stack) Pop(n int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 || n > len(s.tags) {
		return "", fmt.Errorf("%w: pop %d with depth %d", ErrUnderflow, n, len(s.tags))
	}
	return s.pop(n), nil
}

// PopAll closes every open tag.
func (s *Stack) PopAll() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pop(len(s.tags))
}

func (s *Stack) pop(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		last := len(s.tags) - 1
		b.WriteString(htmlemit.EndTag(s.tags[last]))
		s.tags = s.tags[:last]
	}
	return b.String()
}

// Depth returns the number of open tags.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tags)
}

// Open returns a copy of the open tags, outermost first.
func (s *Stack) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tags...)
}

// Close reports ErrUnclosed if any tag is still open. It does not pop them.
func (s *Stack) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tags) > 0 {
		return fmt.Errorf("%w: %s", ErrUnclosed, strings.Join(s.tags, ", "))
	}
	return nil
}
