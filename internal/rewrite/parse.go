package rewrite

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/sirkon/spanwrap/internal/diag"
	"github.com/sirkon/spanwrap/internal/fnir"
	"github.com/sirkon/spanwrap/internal/spanrules"
)

// reservedPrefix starts every identifier emitted into instrumented functions.
const reservedPrefix = "spanwrap"

// expansion is a function accepted for rewriting.
type expansion struct {
	fn      *fnir.Function
	dir     fnir.Directive
	variant fnir.Variant
}

// source bundles a parsed file with its bytes.
type source struct {
	fset *token.FileSet
	file *ast.File
	tok  *token.File
	src  []byte
}

func newSource(fset *token.FileSet, file *ast.File, src []byte) *source {
	return &source{
		fset: fset,
		file: file,
		tok:  fset.File(file.Package),
		src:  src,
	}
}

func (s *source) offset(pos token.Pos) int {
	return s.tok.Offset(pos)
}

func (s *source) fragment(from, to token.Pos) fnir.Fragment {
	return fnir.Fragment{
		Text: string(s.src[s.offset(from):s.offset(to)]),
		Pos:  from,
		End:  to,
	}
}

func (s *source) position(pos token.Pos) token.Position {
	return s.fset.Position(pos)
}

// plan finds directives in the file, reads annotated functions and selects their
// wrapping. Every problem is reported; a function with a problem is skipped.
func plan(s *source, rep *diag.Reporter) []expansion {
	parse := rep.Phase(diag.PhaseParse)
	shape := rep.Phase(diag.PhaseShape)

	owners := map[*ast.CommentGroup]*ast.FuncDecl{}
	for _, decl := range s.file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Doc != nil {
			owners[fd.Doc] = fd
		}
	}

	type attached struct {
		fd       *ast.FuncDecl
		comments []*ast.Comment
	}
	var order []*attached
	byDecl := map[*ast.FuncDecl]*attached{}
	var bodies *scopes
	for _, cg := range s.file.Comments {
		for _, c := range cg.List {
			if !isDirective(c) {
				continue
			}

			fd, ok := owners[cg]
			if !ok {
				if bodies == nil {
					bodies = newScopes(s.file)
				}
				parse.Report(spanrules.DetachedDirective(), detachedMessage(bodies, c), s.position(c.Slash))
				continue
			}

			a, ok := byDecl[fd]
			if !ok {
				a = &attached{fd: fd}
				byDecl[fd] = a
				order = append(order, a)
			}
			a.comments = append(a.comments, c)
		}
	}

	contextName := importName(s.file, "context")

	var res []expansion
	for _, a := range order {
		if len(a.comments) > 1 {
			parse.Report(
				spanrules.DuplicateDirective(),
				fmt.Sprintf("function %s has %d spanwrap directives, exactly one is allowed", a.fd.Name.Name, len(a.comments)),
				s.position(a.comments[1].Slash),
			)
			continue
		}

		dir, derr := parseDirective(a.comments[0])
		if derr != nil {
			parse.Report(derr.rule, derr.msg, s.position(derr.pos))
			continue
		}

		if a.fd.Body == nil {
			parse.Report(
				spanrules.MissingBody(),
				fmt.Sprintf("function %s has no body to instrument", a.fd.Name.Name),
				s.position(a.fd.Name.Pos()),
			)
			continue
		}

		fn := readFunction(s, a.fd, contextName)

		variant, err := Classify(dir.Entry, fn.Async)
		if err != nil {
			shape.Report(spanrules.AsyncOnSyncEntry(), err.Error(), s.position(fn.ContextPos))
			continue
		}

		if !checkShape(s, fn, variant, parse) {
			continue
		}
		if !checkReserved(s, a.fd, parse) {
			continue
		}

		res = append(res, expansion{fn: fn, dir: dir, variant: variant})
	}

	return res
}

// readFunction turns a declaration into its verbatim representation.
func readFunction(s *source, fd *ast.FuncDecl, contextName string) *fnir.Function {
	fn := &fnir.Function{
		Name:    fd.Name.Name,
		NamePos: fd.Name.Pos(),
	}

	if rs := fd.Type.Results; rs != nil && len(rs.List) > 0 {
		if rs.Opening.IsValid() {
			fn.Results = s.fragment(rs.Opening, rs.Closing+1)
		} else {
			fn.Results = s.fragment(rs.Pos(), rs.End())
		}
		fn.ResultCount = rs.NumFields()
	}

	fn.Signature = s.fragment(fd.Pos(), fd.Body.Lbrace)
	fn.Body = s.fragment(fd.Body.Lbrace, fd.Body.Rbrace+1)

	if params := fd.Type.Params.List; len(params) > 0 && isContextType(params[0].Type, contextName) {
		fn.Async = true
		fn.ContextPos = params[0].Type.Pos()
		if len(params[0].Names) > 0 {
			fn.Context = params[0].Names[0].Name
			fn.ContextPos = params[0].Names[0].Pos()
		}
	}

	return fn
}

// checkShape reports what makes the selected variant impossible to emit.
func checkShape(s *source, fn *fnir.Function, v fnir.Variant, rep *diag.ReporterPhase) bool {
	switch v.(type) {
	case fnir.AsyncNative:
		if fn.Context == "" || fn.Context == "_" {
			rep.Report(
				spanrules.UnnamedContext(),
				fmt.Sprintf("context parameter of %s must be named to be instrumented", fn.Name),
				s.position(fn.ContextPos),
			)
			return false
		}
	case fnir.AsyncBoxedFuture:
		if fn.ResultCount != 1 {
			pos := fn.NamePos
			if !fn.Results.IsZero() {
				pos = fn.Results.Pos
			}
			rep.Report(
				spanrules.BoxedFutureResults(),
				fmt.Sprintf(
					"function %s must return exactly one future value, got %d results; context-aware functions take context.Context first",
					fn.Name,
					fn.ResultCount,
				),
				s.position(pos),
			)
			return false
		}
	}

	return true
}

// checkReserved rejects functions already using identifiers of generated code.
func checkReserved(s *source, fd *ast.FuncDecl, rep *diag.ReporterPhase) bool {
	ok := true
	ast.Inspect(fd, func(n ast.Node) bool {
		if !ok {
			return false
		}

		id, isIdent := n.(*ast.Ident)
		if !isIdent || !strings.HasPrefix(id.Name, reservedPrefix) {
			return true
		}

		rep.Report(
			spanrules.ReservedIdentifier(),
			fmt.Sprintf("identifier %s uses the reserved prefix %q", id.Name, reservedPrefix),
			s.position(id.Pos()),
		)
		ok = false
		return false
	})

	return ok
}

func detachedMessage(bodies *scopes, c *ast.Comment) string {
	switch sc := bodies.at(c.Slash); {
	case sc == nil:
		return "directive must be part of the doc comment immediately preceding a function declaration"
	case sc.literal:
		return fmt.Sprintf("directive inside a function literal of %s: function literals cannot be instrumented", sc.decl)
	default:
		return fmt.Sprintf("directive inside the body of %s: only function declarations can be instrumented", sc.decl)
	}
}

// importName returns the local name the file uses for the package path, or an
// empty string when it is not imported by name.
func importName(file *ast.File, path string) string {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != path {
			continue
		}

		if spec.Name == nil {
			return path[strings.LastIndex(path, "/")+1:]
		}
		if spec.Name.Name == "_" || spec.Name.Name == "." {
			continue
		}
		return spec.Name.Name
	}

	return ""
}

func isContextType(expr ast.Expr, contextName string) bool {
	if contextName == "" {
		return false
	}

	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == contextName
}
