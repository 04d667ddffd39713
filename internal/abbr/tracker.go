// Package abbr tracks abbreviation titles per document so that an
// abbreviation always expands to the same title and only its first
// occurrence is annotated.
//
// Plural forms are detected by a single trailing "s": "APIs" shares its
// root with "API" but keeps its own title. Abbreviations that genuinely end
// in "s" are therefore treated as plurals; there is no escape hatch.
package abbr

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInconsistent indicates conflicting titles for the same abbreviation.
var ErrInconsistent = errors.New("inconsistent abbreviation")

// Resolution is a snapshot returned by a successful lookup.
// Count is 0 on the first occurrence and grows by one on each later one.
type Resolution struct {
	Count int
	Abbr  string
	Title string
}

// First reports whether this is the first occurrence of the abbreviation.
func (r *Resolution) First() bool {
	return r.Count == 0
}

type key struct {
	doc  string
	root string
}

type record struct {
	singular *string
	plural   *string
	count    int
}

func (r *record) title(plural bool) *string {
	if plural {
		return r.plural
	}
	return r.singular
}

func (r *record) setTitle(plural bool, title string) {
	if plural {
		r.plural = &title
		return
	}
	r.singular = &title
}

// Tracker holds abbreviation records for one build. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	records map[key]*record
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{records: make(map[key]*record)}
}

// Resolve looks up abbr without supplying a title. It returns nil when no
// title is known yet for this plurality.
func (t *Tracker) Resolve(doc, abbr string) (*Resolution, error) {
	return t.resolve(doc, abbr, nil)
}

// ResolveTitle looks up abbr, recording title if none is known yet.
// A title that differs from the recorded one is an ErrInconsistent error.
func (t *Tracker) ResolveTitle(doc, abbr, title string) (*Resolution, error) {
	return t.resolve(doc, abbr, &title)
}

// Len returns the number of tracked abbreviation roots.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

func (t *Tracker) resolve(doc, abbr string, title *string) (*Resolution, error) {
	root, plural := Root(abbr)
	k := key{doc: doc, root: root}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[k]
	if !ok {
		if title == nil {
			return nil, nil
		}
		rec = &record{}
		rec.setTitle(plural, *title)
		t.records[k] = rec
		return &Resolution{Count: 0, Abbr: abbr, Title: *title}, nil
	}

	known := rec.title(plural)
	switch {
	case known != nil && title != nil && *title != *known:
		return nil, fmt.Errorf("%w: %q: %q != %q", ErrInconsistent, abbr, *known, *title)
	case known == nil && title == nil:
		return nil, nil
	case known == nil:
		rec.setTitle(plural, *title)
	}

	rec.count++
	return &Resolution{Count: rec.count, Abbr: abbr, Title: *rec.title(plural)}, nil
}

// Root strips a single trailing "s" and reports whether it did.
func Root(abbr string) (root string, plural bool) {
	if strings.HasSuffix(abbr, "s") {
		return abbr[:len(abbr)-1], true
	}
	return abbr, false
}
