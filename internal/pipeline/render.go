package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"

	"github.com/alnah/go-mdroles/internal/directives"
	"github.com/alnah/go-mdroles/internal/roles"
)

// nodeRenderer writes handler output verbatim. It reads the document being
// converted from its engine.
type nodeRenderer struct {
	e *Engine
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRole, r.renderRole)
	reg.Register(KindDirective, r.renderDirective)
}

func (r *nodeRenderer) renderRole(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*RoleNode)
	st := r.e.state
	if err := st.ctx.Err(); err != nil {
		return ast.WalkStop, err
	}

	out, err := r.e.roles.Invoke(&roles.Invocation{
		Name:     node.Name,
		Text:     node.Raw,
		Document: st.doc.ID,
		Session:  st.session,
	})
	if err != nil {
		return ast.WalkStop, locate(err, "role", node.Name, st.doc.ID, node.Line)
	}
	_, _ = w.WriteString(out)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderDirective(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*DirectiveNode)
	st := r.e.state
	if err := st.ctx.Err(); err != nil {
		return ast.WalkStop, err
	}

	opts, content, err := directives.SplitBody(node.Body)
	if err != nil {
		return ast.WalkStop, locate(err, "directive", node.Name, st.doc.ID, node.Line)
	}

	out, err := r.e.directives.Invoke(&directives.Invocation{
		Ctx:      st.ctx,
		Name:     node.Name,
		Argument: node.Argument,
		Options:  opts,
		Content:  strings.TrimSuffix(content, "\n"),
		Document: st.doc.ID,
		Stem:     st.doc.Stem,
		Session:  st.session,
		Parse:    r.e.convert,
		OnAsset: func(url string) {
			st.assets = append(st.assets, url)
		},
	})
	if err != nil {
		return ast.WalkStop, locate(err, "directive", node.Name, st.doc.ID, node.Line)
	}

	st.session.Log.Debug("directive rendered",
		zap.String("name", node.Name),
		zap.String("document", st.doc.ID),
		zap.Int("line", node.Line))
	_, _ = w.WriteString(out)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
