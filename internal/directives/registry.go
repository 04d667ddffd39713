// Package directives implements block directive handlers and the registry
// that validates their arguments and options before dispatch.
package directives

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-mdroles/internal/session"
)

// Sentinel errors for directive invocation.
var (
	ErrMalformedContent = errors.New("malformed directive content")
	ErrUnknown          = errors.New("unknown directive")
)

// OptionKind is the value type an option accepts.
type OptionKind int

const (
	// Flag takes no value; its presence is the value.
	Flag OptionKind = iota
	// Text takes a required free-text value.
	Text
	// ClassList takes a space or comma separated list of class names.
	ClassList
)

// Handler renders a validated invocation.
type Handler func(inv *Invocation) (string, error)

// Spec declares what a directive accepts.
type Spec struct {
	Options       map[string]OptionKind
	NeedsArgument bool
	Handler       Handler
}

// Invocation carries one directive block to its handler.
type Invocation struct {
	Ctx      context.Context
	Name     string
	Argument string
	Options  Options
	Content  string
	Document string
	// Stem names the asset directory for files generated from this document.
	Stem    string
	Session *session.Session
	// Parse renders nested Markdown with the same parser and session.
	Parse func(src string) (string, error)
	// OnAsset is called with the URL of every asset the handler writes.
	OnAsset func(url string)
}

// Registry maps directive names to specs. Populate it before use;
// Register must not race with Invoke.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register binds name to spec, replacing any previous one.
func (r *Registry) Register(name string, spec Spec) {
	r.specs[name] = spec
}

// Lookup returns the spec registered for name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// Names returns the registered directive names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke validates inv against the registered spec and runs the handler.
func (r *Registry) Invoke(inv *Invocation) (string, error) {
	spec, ok := r.specs[inv.Name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknown, inv.Name)
	}
	if err := spec.validate(inv); err != nil {
		return "", err
	}
	if inv.Ctx == nil {
		inv.Ctx = context.Background()
	}
	if inv.OnAsset == nil {
		inv.OnAsset = func(string) {}
	}
	return spec.Handler(inv)
}

func (s Spec) validate(inv *Invocation) error {
	if s.NeedsArgument && strings.TrimSpace(inv.Argument) == "" {
		return fmt.Errorf("%w: %s: argument required", ErrMalformedContent, inv.Name)
	}
	if strings.TrimSpace(inv.Content) == "" {
		return fmt.Errorf("%w: %s: content required", ErrMalformedContent, inv.Name)
	}
	for key, value := range inv.Options {
		kind, ok := s.Options[key]
		if !ok {
			return fmt.Errorf("%w: %s: unknown option %q", ErrMalformedContent, inv.Name, key)
		}
		switch {
		case kind == Flag && value != "":
			return fmt.Errorf("%w: %s: option %q takes no value", ErrMalformedContent, inv.Name, key)
		case kind != Flag && value == "":
			return fmt.Errorf("%w: %s: option %q requires a value", ErrMalformedContent, inv.Name, key)
		}
	}
	return nil
}
