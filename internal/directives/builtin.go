package directives

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"

	"github.com/alnah/go-mdroles/internal/htmlemit"
	"github.com/alnah/go-mdroles/internal/minify"
)

// Minifier minifies script and style sources.
type Minifier interface {
	MinifyScript(ctx context.Context, src []byte, defines []minify.Define, enclose minify.Enclose) ([]byte, error)
	MinifyStyle(ctx context.Context, src []byte) ([]byte, error)
}

// AssetStore writes content-addressed files and returns their URL.
type AssetStore interface {
	Externalize(payload []byte, suffix, stem string) (string, error)
}

// Deps are the collaborators of the built-in directives.
type Deps struct {
	Minifier Minifier
	Assets   AssetStore
}

// Default returns a registry holding every built-in directive.
func Default(deps Deps) *Registry {
	r := NewRegistry()
	r.Register("section", Spec{
		Options: map[string]OptionKind{"class": ClassList, "name": Text},
		Handler: sectionDirective,
	})
	r.Register("details", Spec{
		Options:       map[string]OptionKind{"class": ClassList, "name": Text, "section": Flag},
		NeedsArgument: true,
		Handler:       detailsDirective,
	})
	r.Register("script", Spec{
		Options: map[string]OptionKind{"inline": Flag, "define": Text, "enclose": Text},
		Handler: scriptDirective(deps),
	})
	r.Register("style", Spec{
		Handler: styleDirective(deps),
	})
	r.Register("schema", Spec{
		Options: map[string]OptionKind{"format": Text},
		Handler: schemaDirective,
	})
	return r
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nested(inv *Invocation) (string, error) {
	if inv.Parse == nil {
		return htmlemit.EscapeText(inv.Content), nil
	}
	return inv.Parse(inv.Content)
}

func sectionDirective(inv *Invocation) (string, error) {
	inner, err := nested(inv)
	if err != nil {
		return "", err
	}
	return htmlemit.RawElement("section", inner,
		htmlemit.A("id", optional(inv.Options.Get("name"))),
		htmlemit.A("class", inv.Options.Classes("class")),
	), nil
}

// detailsDirective renders a disclosure widget whose summary is the argument.
// With :section: it is wrapped in a section whose id is the slugged summary
// unless :name: gives one.
func detailsDirective(inv *Invocation) (string, error) {
	inner, err := nested(inv)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(inv.Argument)
	name := inv.Options.Get("name")
	wrap := inv.Options.Has("section")

	var id any
	if !wrap {
		id = optional(name)
	}
	details := htmlemit.RawElement("details", "<summary>"+summary+"</summary>"+inner,
		htmlemit.A("id", id),
		htmlemit.A("class", inv.Options.Classes("class")),
	)
	if !wrap {
		return details, nil
	}

	if name == "" {
		name = Slug(summary)
	}
	return htmlemit.RawElement("section", details, htmlemit.A("id", optional(name))), nil
}

// Slug strips markup from s and turns the remaining text into an identifier.
func Slug(s string) string {
	var b strings.Builder
	l := html.NewLexer(parse.NewInput(strings.NewReader(s)))
	for {
		tt, data := l.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(data)
		}
	}
	return slug.Make(b.String())
}
