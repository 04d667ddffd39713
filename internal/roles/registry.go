// Package roles implements inline role handlers and the registry that maps
// a role name to its handler.
package roles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alnah/go-mdroles/internal/session"
)

// Sentinel errors for role invocation.
var (
	ErrMalformed = errors.New("malformed role")
	ErrUnknown   = errors.New("unknown role")
)

// DefaultWikiBase is the base URL used by the wp role.
const DefaultWikiBase = "https://en.wikipedia.org/wiki/"

// Invocation carries one role occurrence to its handler.
type Invocation struct {
	Name     string
	Text     string
	Document string
	Session  *session.Session
}

// Handler renders an invocation to an HTML fragment.
type Handler func(inv *Invocation) (string, error)

// Registry maps role names to handlers. It is populated once and then
// only read, so Register must not race with Lookup.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds name to h, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Lookup returns the handler registered for name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered role names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke dispatches inv to its handler.
func (r *Registry) Invoke(inv *Invocation) (string, error) {
	h, ok := r.handlers[inv.Name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknown, inv.Name)
	}
	return h(inv)
}

// Options configures the default role set.
type Options struct {
	WikiBase string
}

// tagRoles maps a role name to the element it wraps its text in.
var tagRoles = map[string]string{
	"b":         "b",
	"bold":      "b",
	"i":         "i",
	"italic":    "i",
	"strike":    "s",
	"u":         "u",
	"underline": "u",
	"mark":      "mark",
	"var":       "var",
	"ins":       "ins",
	"del":       "del",
	"kbd":       "kbd",
	"samp":      "samp",
	"sub":       "sub",
	"sup":       "sup",
}

// Default returns a registry holding every built-in role.
func Default(opts Options) *Registry {
	base := opts.WikiBase
	if base == "" {
		base = DefaultWikiBase
	}

	r := NewRegistry()
	r.Register("a", linkRole)
	r.Register("ord", ordinalRole)
	r.Register("ed", editRole)
	r.Register("wp", wikiRole(base))
	r.Register("abbr", abbrRole)
	r.Register("push", pushRole)
	r.Register("pop", popRole)
	r.Register("html", rawRole)
	for name, tag := range tagRoles {
		r.Register(name, wrapRole(tag))
	}
	return r
}

func malformed(inv *Invocation, reason string) error {
	return fmt.Errorf("%w: %s: %s: %q", ErrMalformed, inv.Name, reason, inv.Text)
}
