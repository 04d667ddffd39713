package roles

import (
	"regexp"
	"strconv"
	"strings"
)

var tagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

func pushRole(inv *Invocation) (string, error) {
	names := strings.FieldsFunc(inv.Text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(names) == 0 {
		return "", malformed(inv, "no tags")
	}
	for _, name := range names {
		if !tagName.MatchString(name) {
			return "", malformed(inv, "invalid tag name")
		}
	}
	return inv.Session.Tags.Push(names...), nil
}

// popRole pops one tag for empty text, every tag for "all", else n tags.
func popRole(inv *Invocation) (string, error) {
	text := strings.TrimSpace(inv.Text)
	switch text {
	case "":
		return inv.Session.Tags.Pop(1)
	case "all":
		return inv.Session.Tags.PopAll(), nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return "", malformed(inv, "expected a count or all")
	}
	return inv.Session.Tags.Pop(n)
}
