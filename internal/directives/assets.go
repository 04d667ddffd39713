package directives

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/alnah/go-mdroles/internal/htmlemit"
	"github.com/alnah/go-mdroles/internal/minify"
	"github.com/alnah/go-mdroles/internal/yamlutil"
)

const scriptSuffix = ".min.js"

func scriptDirective(deps Deps) Handler {
	return func(inv *Invocation) (string, error) {
		defines := minify.ParseDefines(inv.Options.Get("define"))
		enclose := minify.ParseEnclose(inv.Options.Get("enclose"))

		out, err := deps.Minifier.MinifyScript(inv.Ctx, []byte(inv.Content), defines, enclose)
		if err != nil {
			return "", err
		}
		if inv.Options.Has("inline") {
			return htmlemit.RawElement("script", string(out)), nil
		}

		url, err := deps.Assets.Externalize(out, scriptSuffix, inv.Stem)
		if err != nil {
			return "", err
		}
		inv.OnAsset(url)
		return htmlemit.RawElement("script", "",
			htmlemit.A("src", url),
			htmlemit.A("async", true),
		), nil
	}
}

// styleDirective embeds the minified stylesheet as a data URI.
func styleDirective(deps Deps) Handler {
	return func(inv *Invocation) (string, error) {
		out, err := deps.Minifier.MinifyStyle(inv.Ctx, []byte(inv.Content))
		if err != nil {
			return "", err
		}
		href := "data:text/css," + htmlemit.PercentEncode(string(out), "/")
		return htmlemit.StartTag("link",
			htmlemit.A("rel", "stylesheet"),
			htmlemit.A("href", href),
		), nil
	}
}

// schemaDirective re-serializes a JSON (or YAML with :format: yaml) object
// compactly inside a JSON-LD script element.
func schemaDirective(inv *Invocation) (string, error) {
	data := []byte(inv.Content)

	switch format := strings.ToLower(inv.Options.Get("format")); format {
	case "", "json":
	case "yaml", "yml":
		var err error
		if data, err = yamlutil.ToJSON(data); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrMalformedContent, inv.Name, err)
		}
	default:
		return "", fmt.Errorf("%w: %s: unsupported format %q", ErrMalformedContent, inv.Name, format)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformedContent, inv.Name, err)
	}
	var escaped bytes.Buffer
	json.HTMLEscape(&escaped, compact.Bytes())

	return htmlemit.RawElement("script", asciiJSON(escaped.Bytes()),
		htmlemit.A("type", "application/ld+json"),
	), nil
}

// asciiJSON rewrites every non-ASCII rune of compact JSON as a \uXXXX
// escape, using a surrogate pair above the BMP. Such runes only occur
// inside string literals, where the escape is equivalent.
func asciiJSON(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, r := range string(data) {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", hi, lo)
		default:
			fmt.Fprintf(&b, "\\u%04x", r)
		}
	}
	return b.String()
}
