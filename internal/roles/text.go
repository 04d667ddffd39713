package roles

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-mdroles/internal/htmlemit"
)

var ordinalPattern = regexp.MustCompile(`^(\d+)(st|nd|rd|th)?$`)

func ordinalRole(inv *Invocation) (string, error) {
	m := ordinalPattern.FindStringSubmatch(strings.TrimSpace(inv.Text))
	if m == nil {
		return "", malformed(inv, "expected an integer")
	}
	suffix := m[2]
	if suffix == "" {
		suffix = OrdinalSuffix(m[1])
	}
	return m[1] + htmlemit.Element("sup", suffix), nil
}

// OrdinalSuffix returns the English ordinal suffix for a string of decimal
// digits. Only the last two digits matter, so arbitrarily long numbers work.
func OrdinalSuffix(digits string) string {
	n := 0
	for _, c := range digits[max(0, len(digits)-2):] {
		n = n*10 + int(c-'0')
	}
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// editRole renders "/old/new/" as a deletion followed by an insertion. The
// first character is the delimiter.
func editRole(inv *Invocation) (string, error) {
	text := strings.TrimSpace(inv.Text)
	delim, size := utf8.DecodeRuneInString(text)
	if size == 0 || delim == utf8.RuneError {
		return "", malformed(inv, "expected /old/new/")
	}
	d := string(delim)
	body := strings.TrimSuffix(text[size:], d)
	old, repl, ok := strings.Cut(body, d)
	if !ok {
		return "", malformed(inv, "expected /old/new/")
	}
	return htmlemit.Element("del", old) + "&#8203;" + htmlemit.Element("ins", repl), nil
}

func rawRole(inv *Invocation) (string, error) {
	return inv.Text, nil
}

func wrapRole(tag string) Handler {
	return func(inv *Invocation) (string, error) {
		return htmlemit.Element(tag, inv.Text), nil
	}
}
