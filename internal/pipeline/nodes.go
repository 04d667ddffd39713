package pipeline

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// Node kinds produced by the role parser and directive transformer.
var (
	KindRole      = ast.NewNodeKind("Role")
	KindDirective = ast.NewNodeKind("Directive")
)

var _ ast.Node = (*RoleNode)(nil)

// RoleNode is an inline {name}`text` span.
type RoleNode struct {
	ast.BaseInline
	Name string
	Raw  string
	Line int
}

// Kind implements ast.Node.
func (n *RoleNode) Kind() ast.NodeKind {
	return KindRole
}

// Dump implements ast.Node.
func (n *RoleNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
		"Raw":  n.Raw,
		"Line": strconv.Itoa(n.Line),
	}, nil)
}

// DirectiveNode replaces a fenced code block whose info string names a
// registered directive. Body holds the raw lines, options included.
type DirectiveNode struct {
	ast.BaseBlock
	Name     string
	Argument string
	Body     string
	Line     int
}

// Kind implements ast.Node.
func (n *DirectiveNode) Kind() ast.NodeKind {
	return KindDirective
}

// Dump implements ast.Node.
func (n *DirectiveNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":     n.Name,
		"Argument": n.Argument,
		"Line":     strconv.Itoa(n.Line),
	}, nil)
}
