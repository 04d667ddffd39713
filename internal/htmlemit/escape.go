package htmlemit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuote indicates an unsupported attribute quoting style.
var ErrInvalidQuote = errors.New("invalid attribute quote style")

// Quote selects how an attribute value will be delimited in the output.
type Quote int

const (
	QuoteDouble Quote = iota
	QuoteSingle
	QuoteNone
)

// String returns the quote character, or "" for unquoted values.
func (q Quote) String() string {
	switch q {
	case QuoteDouble:
		return `"`
	case QuoteSingle:
		return "'"
	case QuoteNone:
		return ""
	default:
		return fmt.Sprintf("Quote(%d)", int(q))
	}
}

// EscapeText escapes s for use as element text content.
//
// Only ampersands that could start a character reference are rewritten,
// followed by every '<'. '>' and quotes are left alone.
func EscapeText(s string) string {
	s = escapeAmpersands(s, textRefStart)
	return strings.ReplaceAll(s, "<", "&lt;")
}

// EscapeAttr escapes s for use as an attribute value delimited by q.
func EscapeAttr(s string, q Quote) (string, error) {
	s = escapeAmpersands(s, attrRefStart)

	switch q {
	case QuoteDouble:
		s = strings.ReplaceAll(s, `"`, "&#34;")
	case QuoteSingle:
		s = strings.ReplaceAll(s, "'", "&#39;")
	case QuoteNone:
		s = unquotedReplacer.Replace(s)
	default:
		return "", fmt.Errorf("%w: %v", ErrInvalidQuote, q)
	}

	return strings.ReplaceAll(s, "<", "&lt;"), nil
}

// MustEscapeAttr is EscapeAttr for a known-valid quote style.
func MustEscapeAttr(s string, q Quote) string {
	out, err := EscapeAttr(s, q)
	if err != nil {
		panic(err)
	}
	return out
}

var unquotedReplacer = strings.NewReplacer(
	" ", "&#32;",
	">", "&#62;",
	"=", "&#61;",
	"`", "&#96;",
)

// escapeAmpersands replaces each '&' for which refStart reports a plausible
// character reference in the bytes that follow it.
func escapeAmpersands(s string, refStart func(rest string) bool) string {
	if !strings.Contains(s, "&") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' && refStart(s[i+1:]) {
			b.WriteString("&amp;")
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// textRefStart matches '#' or an ASCII letter.
func textRefStart(rest string) bool {
	if rest == "" {
		return false
	}
	return rest[0] == '#' || isLetter(rest[0])
}

// attrRefStart matches '#' or a run of alphanumerics terminated by ';'.
func attrRefStart(rest string) bool {
	if rest == "" {
		return false
	}
	if rest[0] == '#' {
		return true
	}
	i := 0
	for i < len(rest) && isAlnum(rest[i]) {
		i++
	}
	return i > 0 && i < len(rest) && rest[i] == ';'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || ('0' <= c && c <= '9')
}
