package pipeline

import (
	"regexp"
	"strings"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocess prepares Markdown source for goldmark: a leading byte order
// mark is dropped and line endings are normalized to \n.
func Preprocess(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
