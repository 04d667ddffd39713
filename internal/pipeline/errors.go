package pipeline

import (
	"errors"
	"fmt"
)

// ErrHTMLConversion indicates goldmark failed for reasons other than a
// role or directive handler.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// ConstructError locates a handler failure in the source document.
type ConstructError struct {
	Construct string // "role" or "directive"
	Name      string
	Document  string
	Line      int
	Err       error
}

func (e *ConstructError) Error() string {
	return fmt.Sprintf("%s:%d: %s %q: %v", e.Document, e.Line, e.Construct, e.Name, e.Err)
}

func (e *ConstructError) Unwrap() error {
	return e.Err
}

// locate wraps err unless a nested conversion already located it.
func locate(err error, construct, name, doc string, line int) error {
	var ce *ConstructError
	if errors.As(err, &ce) {
		return err
	}
	return &ConstructError{Construct: construct, Name: name, Document: doc, Line: line, Err: err}
}
