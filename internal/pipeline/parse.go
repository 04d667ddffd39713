package pipeline

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	roleOpen      = regexp.MustCompile("^\\{([A-Za-z][A-Za-z0-9_-]*)\\}(`+)")
	directiveInfo = regexp.MustCompile(`^\{([A-Za-z][A-Za-z0-9_-]*)\}\s*(.*)$`)
)

// names reports whether a construct name is registered.
type names interface {
	Has(name string) bool
}

// roleParser recognizes {name}`text` for registered names. The text is
// closed by a backtick run of the same length and may continue across soft
// line breaks inside the paragraph, each of which becomes a space.
type roleParser struct {
	roles names
}

func (p *roleParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *roleParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	m := roleOpen.FindSubmatchIndex(line)
	if m == nil {
		return nil
	}
	name := string(line[m[2]:m[3]])
	if !p.roles.Has(name) {
		return nil
	}

	ticks := m[5] - m[4]
	startLine, startPos := block.Position()
	node := &RoleNode{Name: name, Line: lineOf(block.Source(), seg.Start)}
	block.Advance(m[1])

	var raw bytes.Buffer
	for {
		rest, _ := block.PeekLine()
		if rest == nil {
			block.SetPosition(startLine, startPos)
			return nil
		}
		if end, next := closingRun(rest, ticks); end >= 0 {
			raw.Write(rest[:end])
			block.Advance(next)
			node.Raw = raw.String()
			return node
		}
		raw.Write(bytes.TrimRight(rest, "\r\n"))
		raw.WriteByte(' ')
		block.AdvanceLine()
	}
}

// closingRun finds a backtick run of exactly n in line. It returns the
// offset where the run starts and the offset just past it, or -1.
func closingRun(line []byte, n int) (int, int) {
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(line) && line[j] == '`' {
			j++
		}
		if j-i == n {
			return i, j
		}
		i = j
	}
	return -1, -1
}

// directiveTransformer swaps fenced code blocks labelled {name} for
// DirectiveNodes when name is registered.
type directiveTransformer struct {
	directives names
}

func (t *directiveTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fcb, ok := n.(*ast.FencedCodeBlock); ok && entering {
			fences = append(fences, fcb)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, fcb := range fences {
		if fcb.Info == nil {
			continue
		}
		m := directiveInfo.FindSubmatch(fcb.Info.Segment.Value(source))
		if m == nil || !t.directives.Has(string(m[1])) {
			continue
		}

		var body strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(source))
		}

		node := &DirectiveNode{
			Name:     string(m[1]),
			Argument: strings.TrimSpace(string(m[2])),
			Body:     body.String(),
			Line:     lineOf(source, fcb.Info.Segment.Start),
		}
		node.SetBlankPreviousLines(fcb.HasBlankPreviousLines())
		parent := fcb.Parent()
		parent.ReplaceChild(parent, fcb, node)
	}
}

func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
