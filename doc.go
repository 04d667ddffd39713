// Package mdroles converts Markdown to HTML with typed inline roles and
// block directives.
//
// # Quick Start
//
// Create a converter, start a build, convert documents, and close the build:
//
//	conv, err := mdroles.NewConverter(mdroles.WithOutputDir("public"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := conv.NewBuild()
//	defer b.Close()
//
//	result, err := b.Convert(ctx, mdroles.Input{
//	    Path:     "posts/hello.md",
//	    Markdown: "Press {kbd}`Ctrl+C` to copy.",
//	})
//
// # Roles
//
// A role is written {name}`text`. The text may contain backticks if the
// delimiting run is longer, as in inline code. Registered roles:
//
//	a        link: {a}`Go <https://go.dev>` or an anchor {a}`id=top`
//	wp       Wikipedia link: {wp}`Go|Go (programming language)`
//	abbr     abbreviation: {abbr}`HTML (HyperText Markup Language)`
//	ord      ordinal: {ord}`21` renders 21<sup>st</sup>
//	ed       editorial change: {ed}`/old/new/`
//	push     open tags: {push}`div section`
//	pop      close tags: {pop}`2`, {pop}`all`
//	html     raw HTML
//	tags:    b, i, u, strike, mark, kbd, samp, sub, sup, var, ins, del
//
// An abbreviation is annotated on its first occurrence in a document and
// must keep the same title afterwards; a conflicting title fails with
// ErrInconsistentAbbreviation. Unregistered role names are left as text.
//
// # Directives
//
// A directive is a fenced code block whose info string starts with {name}.
// Leading ":key: value" lines are options:
//
//	```{script}
//	:define: DEBUG=false
//	:enclose: auto
//	console.log("hi")
//	```
//
// Registered directives are section, details, script, style and schema.
// Scripts are minified by two terser passes and written under the output
// directory as {stem}_/{hash}.min.js; identical content always yields the
// same file. Styles are minified by csso and inlined as a data URI.
//
// # Builds and Concurrency
//
// A Build owns the abbreviation state and tag stack for the documents it
// converts and processes them one at a time. Use a BuildPool to convert in
// parallel; each pooled Build has its own state.
//
// # Error Handling
//
// Handler failures are returned as *ConstructError carrying the document
// and line, and unwrap to a sentinel:
//
//	var ce *mdroles.ConstructError
//	if errors.As(err, &ce) {
//	    fmt.Println(ce.Document, ce.Line)
//	}
//	if errors.Is(err, mdroles.ErrMinificationFailed) {
//	    // terser or csso failed
//	}
//
// KindOf maps any error onto a Kind for switch-style handling.
package mdroles
