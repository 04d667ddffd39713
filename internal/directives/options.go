package directives

import (
	"fmt"
	"regexp"
	"strings"
)

var optionLine = regexp.MustCompile(`^:([A-Za-z][\w-]*):(?:\s+(.*))?$`)

// Options holds raw option values by name. Flags map to "".
type Options map[string]string

// Has reports whether the option was given.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Get returns the option value, or "" if absent.
func (o Options) Get(key string) string {
	return o[key]
}

// Classes splits a class list option on spaces and commas.
func (o Options) Classes(key string) []string {
	return strings.FieldsFunc(o[key], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// SplitBody separates the leading ":key: value" lines of a directive body
// from its content. A blank line after the options is dropped.
func SplitBody(body string) (Options, string, error) {
	opts := Options{}
	lines := strings.SplitAfter(body, "\n")

	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r\n")
		m := optionLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			break
		}
		if opts.Has(m[1]) {
			return nil, "", fmt.Errorf("%w: duplicate option %q", ErrMalformedContent, m[1])
		}
		opts[m[1]] = strings.TrimSpace(m[2])
	}
	if i > 0 && i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return opts, strings.Join(lines[i:], ""), nil
}
