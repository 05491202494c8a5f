package rewrite

import (
	"go/ast"
	"go/token"

	"github.com/sirkon/rbtree"
)

// scopes indexes function bodies of a file by position.
type scopes struct {
	tree *rbtree.Tree[*scopeSpan]
}

// scope is a function body: of a declaration, or of a literal inside one.
type scope struct {
	decl    string
	literal bool
}

// scopeSpan stores a [start,end] body span and the spans nested in it.
type scopeSpan struct {
	start token.Pos
	end   token.Pos

	scope    *scope
	children *rbtree.Tree[*scopeSpan]
}

func newScopes(file *ast.File) *scopes {
	s := &scopes{tree: rbtree.New[*scopeSpan]()}
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}

		s.add(&scope{decl: fd.Name.Name}, fd.Body.Lbrace, fd.Body.Rbrace)
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			if lit, ok := n.(*ast.FuncLit); ok {
				s.add(&scope{decl: fd.Name.Name, literal: true}, lit.Body.Lbrace, lit.Body.Rbrace)
			}
			return true
		})
	}

	return s
}

func (s *scopes) add(sc *scope, start, end token.Pos) {
	attachScope(s.tree, &scopeSpan{start: start, end: end, scope: sc})
}

// at returns the innermost body covering pos, nil when pos is outside of any.
func (s *scopes) at(pos token.Pos) *scope {
	res := s.tree.Search(&scopeSpan{start: pos, end: pos})
	if res == nil {
		return nil
	}
	return descendScope(res, pos)
}

// Cmp orders disjoint spans. Overlapping spans compare equal: bodies nest and
// never overlap partially.
func (n *scopeSpan) Cmp(other *scopeSpan) int {
	if n.end < other.start {
		return -1
	}
	if n.start > other.end {
		return 1
	}
	return 0
}

func spanContains(a, b *scopeSpan) bool {
	return a.start <= b.start && a.end >= b.end
}

// attachScope inserts s into t. When t has a span overlapping s already one of
// them contains the other and the inner one goes into the outer's children.
func attachScope(t *rbtree.Tree[*scopeSpan], s *scopeSpan) {
	r := t.InsertReturn(s)
	if r == s {
		return
	}

	if spanContains(s, r) {
		// The node in the tree becomes s, the old one moves down.
		old := *r
		*r = *s
		if r.children == nil {
			r.children = rbtree.New[*scopeSpan]()
		}
		attachScope(r.children, &old)
		return
	}

	if r.children == nil {
		r.children = rbtree.New[*scopeSpan]()
	}
	attachScope(r.children, s)
}

func descendScope(n *scopeSpan, pos token.Pos) *scope {
	if n.children == nil {
		return n.scope
	}

	child := n.children.Search(&scopeSpan{start: pos, end: pos})
	if child == nil {
		return n.scope
	}
	return descendScope(child, pos)
}
