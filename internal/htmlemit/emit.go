// Package htmlemit builds escaped HTML start tags and elements from a tag
// name and an ordered attribute list.
package htmlemit

import (
	"fmt"
	"strings"
)

// Attr is a single attribute. Value may be a bool, nil, a slice, or any
// value that formats with fmt.Sprint.
type Attr struct {
	Key   string
	Value any
}

// A builds an Attr.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// StartTag renders "<tag attrs...>".
func StartTag(tag string, attrs ...Attr) string {
	var b strings.Builder
	writeStartTag(&b, tag, attrs)
	return b.String()
}

// Element renders a full element whose text content is escaped.
func Element(tag, text string, attrs ...Attr) string {
	var b strings.Builder
	writeStartTag(&b, tag, attrs)
	b.WriteString(EscapeText(text))
	b.WriteString(EndTag(tag))
	return b.String()
}

// RawElement renders a full element around already-escaped inner HTML.
func RawElement(tag, inner string, attrs ...Attr) string {
	var b strings.Builder
	writeStartTag(&b, tag, attrs)
	b.WriteString(inner)
	b.WriteString(EndTag(tag))
	return b.String()
}

// EndTag renders "</tag>".
func EndTag(tag string) string {
	return "</" + tag + ">"
}

func writeStartTag(b *strings.Builder, tag string, attrs []Attr) {
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		writeAttr(b, a)
	}
	b.WriteByte('>')
}

func writeAttr(b *strings.Builder, a Attr) {
	name := AttrName(a.Key)

	var value string
	switch v := a.Value.(type) {
	case nil:
		return
	case bool:
		if v {
			b.WriteByte(' ')
			b.WriteString(name)
		}
		return
	case []string:
		if len(v) == 0 {
			return
		}
		value = strings.Join(v, " ")
	case []any:
		if len(v) == 0 {
			return
		}
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		value = strings.Join(parts, " ")
	case string:
		value = v
	default:
		value = fmt.Sprint(v)
	}

	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(MustEscapeAttr(value, QuoteDouble))
	b.WriteByte('"')
}

// AttrName maps a key to its HTML attribute name: a single trailing
// underscore is dropped (so "class_" can stand in for a reserved word) and
// the remaining underscores become hyphens.
func AttrName(key string) string {
	key = strings.TrimSuffix(key, "_")
	return strings.ReplaceAll(key, "_", "-")
}
