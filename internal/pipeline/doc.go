// Package pipeline turns Markdown into HTML with goldmark, extended with
// inline roles and block directives.
//
// Roles are written {name}`text` and directives as fenced code blocks whose
// info string starts with {name}:
//
//	```{details} Summary text
//	:section:
//	Nested *Markdown* content.
//	```
//
// Role text may run across soft line breaks of a paragraph, each of which
// becomes a space. Only names present in the registries are recognized;
// anything else is left to goldmark. Role and directive output is written verbatim.
package pipeline
