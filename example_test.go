package mdroles_test

import (
	"context"
	"errors"
	"fmt"

	mdroles "github.com/alnah/go-mdroles"
)

// Example converts a document using inline roles.
func Example() {
	conv, err := mdroles.NewConverter(mdroles.WithMarkdown(false, false, false))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	b := conv.NewBuild()
	defer b.Close()

	result, err := b.Convert(context.Background(), mdroles.Input{
		Path:     "guide.md",
		Markdown: "Press {kbd}`Ctrl+C` on the {ord}`3` try.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(string(result.HTML))
	// Output: <p>Press <kbd>Ctrl+C</kbd> on the 3<sup>rd</sup> try.</p>
}

// Example_abbreviation shows that only the first occurrence is annotated.
func Example_abbreviation() {
	conv, _ := mdroles.NewConverter()
	b := conv.NewBuild()
	defer b.Close()

	_, err := b.Convert(context.Background(), mdroles.Input{
		Path:     "a.md",
		Markdown: "{abbr}`CSS (Cascading Style Sheets)` then {abbr}`CSS (Cool Style Sheets)`",
	})
	fmt.Println(errors.Is(err, mdroles.ErrInconsistentAbbreviation))
	// Output: true
}

// Example_errorLocation shows how to find where a construct failed.
func Example_errorLocation() {
	conv, _ := mdroles.NewConverter()
	b := conv.NewBuild()
	defer b.Close()

	_, err := b.Convert(context.Background(), mdroles.Input{
		Path:     "notes.md",
		Markdown: "Intro\n\nUnderflow: {pop}`2`\n",
	})

	var ce *mdroles.ConstructError
	if errors.As(err, &ce) {
		fmt.Println(ce.Document, ce.Line, ce.Name, mdroles.KindOf(err))
	}
	// Output: notes.md 3 pop stack underflow
}
