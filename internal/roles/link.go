package roles

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-mdroles/internal/htmlemit"
)

var (
	linkPattern   = regexp.MustCompile(`(.+?)\s*<([^>]+)>\s*(.*)`)
	anchorPattern = regexp.MustCompile(`^id=([A-Za-z][\w.:-]*)$`)
)

var linkClasses = []string{"reference", "external"}

// linkRole renders "label <target> [attr=value ...]". Values are split on
// commas and joined with spaces; class values extend the base classes.
// "id=IDENT" alone renders an empty anchor.
func linkRole(inv *Invocation) (string, error) {
	text := strings.TrimSpace(inv.Text)
	if m := anchorPattern.FindStringSubmatch(text); m != nil {
		return htmlemit.RawElement("a", "", htmlemit.A("id", m[1])), nil
	}

	m := linkPattern.FindStringSubmatch(text)
	if m == nil {
		return "", malformed(inv, "expected label <target>")
	}

	classes := append([]string{}, linkClasses...)
	var extra []htmlemit.Attr
	for _, field := range strings.Fields(m[3]) {
		key, value, _ := strings.Cut(field, "=")
		if value == "" {
			continue
		}
		if key == "class" {
			classes = append(classes, strings.Split(value, ",")...)
			continue
		}
		extra = append(extra, htmlemit.A(key, strings.Split(value, ",")))
	}

	attrs := append([]htmlemit.Attr{
		htmlemit.A("class", classes),
		htmlemit.A("href", m[2]),
	}, extra...)
	return htmlemit.Element("a", m[1], attrs...), nil
}

// wikiRole renders "display|Page" as a link into the wiki at base.
func wikiRole(base string) Handler {
	return func(inv *Invocation) (string, error) {
		text := strings.TrimSpace(inv.Text)
		if text == "" {
			return "", malformed(inv, "empty page")
		}

		display, page, ok := strings.Cut(text, "|")
		display = strings.TrimSpace(display)
		if ok {
			page = strings.TrimSpace(page)
		} else {
			page = display
		}
		if i := strings.IndexByte(display, '#'); i >= 0 {
			display = strings.TrimSpace(display[:i])
		}
		if page == "" || display == "" {
			return "", malformed(inv, "empty page")
		}

		href := base + WikiPath(page)
		return htmlemit.Element("a", display,
			htmlemit.A("class", linkClasses),
			htmlemit.A("href", href),
		), nil
	}
}

// WikiPath converts a page title to its URL path form.
func WikiPath(page string) string {
	page = norm.NFC.String(page)
	r, size := utf8.DecodeRuneInString(page)
	page = string(unicode.ToTitle(r)) + page[size:]
	page = strings.ReplaceAll(page, " ", "_")
	page = strings.ReplaceAll(page, "’", "'")
	return htmlemit.PercentEncode(page, "/()#")
}
