package mdroles

import (
	"context"
	"errors"

	"github.com/alnah/go-mdroles/internal/abbr"
	"github.com/alnah/go-mdroles/internal/asset"
	"github.com/alnah/go-mdroles/internal/directives"
	"github.com/alnah/go-mdroles/internal/minify"
	"github.com/alnah/go-mdroles/internal/pipeline"
	"github.com/alnah/go-mdroles/internal/roles"
	"github.com/alnah/go-mdroles/internal/tagstack"
)

// Sentinel errors for library operations. Handler failures wrap one of
// these and are reported as *ConstructError.
var (
	ErrMalformedRole            = roles.ErrMalformed
	ErrMalformedContent         = directives.ErrMalformedContent
	ErrInconsistentAbbreviation = abbr.ErrInconsistent
	ErrStackUnderflow           = tagstack.ErrUnderflow
	ErrMinificationFailed       = minify.ErrFailed
	ErrAssetWriteFailed         = asset.ErrWriteFailed
	ErrUnclosedTags             = tagstack.ErrUnclosed
	ErrHTMLConversion           = pipeline.ErrHTMLConversion

	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrBuildClosed   = errors.New("build is closed")
	ErrInvalidOption = errors.New("invalid option")
)

// ConstructError locates a role or directive failure in a document.
type ConstructError = pipeline.ConstructError

// Kind classifies an error for callers that switch on outcome rather
// than on individual sentinels.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedRole
	KindMalformedContent
	KindInconsistentAbbreviation
	KindStackUnderflow
	KindMinificationFailed
	KindAssetWriteFailed
	KindUnclosedTags
	KindEmptyMarkdown
	KindHTMLConversion
	KindCanceled
)

var kindNames = [...]string{
	KindUnknown:                  "unknown",
	KindMalformedRole:            "malformed role",
	KindMalformedContent:         "malformed content",
	KindInconsistentAbbreviation: "inconsistent abbreviation",
	KindStackUnderflow:           "stack underflow",
	KindMinificationFailed:       "minification failed",
	KindAssetWriteFailed:         "asset write failed",
	KindUnclosedTags:             "unclosed tags",
	KindEmptyMarkdown:            "empty markdown",
	KindHTMLConversion:           "HTML conversion",
	KindCanceled:                 "canceled",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// kindTable is checked in order. A minifier timeout wraps
// DeadlineExceeded but is reported as a minification failure. Asset store
// validation errors count as write failures.
var kindTable = []struct {
	err  error
	kind Kind
}{
	{context.Canceled, KindCanceled},
	{ErrMalformedRole, KindMalformedRole},
	{ErrMalformedContent, KindMalformedContent},
	{ErrInconsistentAbbreviation, KindInconsistentAbbreviation},
	{ErrStackUnderflow, KindStackUnderflow},
	{ErrMinificationFailed, KindMinificationFailed},
	{ErrAssetWriteFailed, KindAssetWriteFailed},
	{asset.ErrInvalidStem, KindAssetWriteFailed},
	{asset.ErrInvalidSuffix, KindAssetWriteFailed},
	{ErrUnclosedTags, KindUnclosedTags},
	{ErrEmptyMarkdown, KindEmptyMarkdown},
	{ErrHTMLConversion, KindHTMLConversion},
	{context.DeadlineExceeded, KindCanceled},
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, e := range kindTable {
		if errors.Is(err, e.err) {
			return e.kind
		}
	}
	return KindUnknown
}
