package roles

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-mdroles/internal/abbr"
	"github.com/alnah/go-mdroles/internal/htmlemit"
)

var abbrPattern = regexp.MustCompile(`^(.+?)\s*(?:\((.*)\))?$`)

// abbrRole renders "Text (Title)". The longer of the two is taken as the
// expansion. Without a title the abbreviation must already be known.
func abbrRole(inv *Invocation) (string, error) {
	m := abbrPattern.FindStringSubmatch(strings.TrimSpace(inv.Text))
	if m == nil {
		return "", malformed(inv, "expected Text (Title)")
	}
	text, title := m[1], strings.TrimSpace(m[2])

	var (
		res *abbr.Resolution
		err error
	)
	if title == "" {
		res, err = inv.Session.Abbr.Resolve(inv.Document, text)
	} else {
		if utf8.RuneCountInString(title) < utf8.RuneCountInString(text) {
			text, title = title, text
		}
		res, err = inv.Session.Abbr.ResolveTitle(inv.Document, text, title)
	}
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", malformed(inv, "no title known")
	}

	el := htmlemit.Element("abbr", res.Abbr, htmlemit.A("title", res.Title))
	if !res.First() {
		return el, nil
	}
	return htmlemit.RawElement("span", el,
		htmlemit.A("class", "abbr"),
		htmlemit.A("data_title", res.Title),
	), nil
}
