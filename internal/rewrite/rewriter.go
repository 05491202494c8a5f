package rewrite

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/sirkon/spanwrap/internal/config"
	"github.com/sirkon/spanwrap/internal/diag"
	"github.com/sirkon/spanwrap/internal/fnir"
	"github.com/sirkon/spanwrap/internal/spanrules"
)

// Rewriter instruments annotated functions of Go source files.
type Rewriter struct {
	cfg config.Config

	// declared holds package level names of other files of the package.
	declared map[string]struct{}
}

// New creates a Rewriter with the given configuration.
func New(cfg config.Config) *Rewriter {
	return &Rewriter{cfg: cfg}
}

// WithPackageScope returns a Rewriter knowing the package level names declared
// by other files of the package. The runtime import is aliased when its name is
// among them.
func (r *Rewriter) WithPackageScope(names []string) *Rewriter {
	res := &Rewriter{
		cfg:      r.cfg,
		declared: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		res.declared[name] = struct{}{}
	}

	return res
}

// Result is a rewritten file.
type Result struct {
	// Source is the rewritten file. It is the original source when nothing changed.
	Source []byte

	// Changed is set when at least one function was instrumented.
	Changed bool

	Expansions []Expansion
}

// Expansion describes an instrumented function.
type Expansion struct {
	Func    string
	Entry   fnir.EntryPoint
	Variant fnir.Variant
	Tag     string
	Pos     token.Position

	// Signature is the declaration text up to the body, kept as is in the output.
	Signature string
}

// Rewrite instruments every annotated function of the file. Any diagnostic makes
// the whole file fail with a *diag.Error and no output.
func (r *Rewriter) Rewrite(filename string, src []byte) (*Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.AllErrors)
	if err != nil {
		return nil, syntaxError(err)
	}

	s := newSource(fset, file, src)
	var rep diag.Reporter
	xs := plan(s, &rep)
	if err := rep.Err(); err != nil {
		return nil, err
	}

	if len(xs) == 0 {
		Logger().Debug("no annotated functions", zap.String("file", filename))
		return &Result{Source: src}, nil
	}

	out, expansions, err := r.emit(s, filename, xs)
	if err != nil {
		rep.Phase(diag.PhaseEmit).Report(spanrules.SourceSyntax(), err.Error(), token.Position{Filename: filename})
		return nil, rep.Err()
	}

	return &Result{
		Source:     out,
		Changed:    true,
		Expansions: expansions,
	}, nil
}

func (r *Rewriter) emit(s *source, filename string, xs []expansion) ([]byte, []Expansion, error) {
	name, imp := runtimeImport(s, r.cfg.Runtime.Path, r.cfg.Runtime.Name, r.declared)

	w := &wrapper{
		s:       s,
		runtime: name,
	}
	if r.cfg.LineDirectives {
		w.filename = filename
	}

	var edits []edit
	if imp != nil {
		edits = append(edits, *imp)
	}

	var expansions []Expansion
	for _, x := range xs {
		body, err := w.body(x)
		if err != nil {
			return nil, nil, fmt.Errorf("wrap %s: %w", x.fn.Name, err)
		}

		edits = append(edits, edit{
			start: s.offset(x.fn.Body.Pos),
			end:   s.offset(x.fn.Body.End),
			text:  body,
		})
		expansions = append(expansions, Expansion{
			Func:    x.fn.Name,
			Entry:   x.dir.Entry,
			Variant: x.variant,
			Tag:     x.dir.Tag.Text,
			Pos:     s.position(x.fn.NamePos),

			Signature: strings.TrimSpace(x.fn.Signature.Text),
		})

		Logger().Debug(
			"instrument function",
			zap.String("func", x.fn.Name),
			zap.Stringer("entry", x.dir.Entry),
			zap.Stringer("variant", x.variant),
			zap.String("tag", x.dir.Tag.Text),
			zap.String("signature", strings.TrimSpace(x.fn.Signature.Text)),
		)
	}

	out, err := apply(s.src, edits)
	if err != nil {
		return nil, nil, fmt.Errorf("splice bodies: %w", err)
	}

	if r.cfg.Format {
		out, err = imports.Process(filename, out, &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("format generated code: %w", err)
		}
	}

	if _, err := parser.ParseFile(token.NewFileSet(), filename, out, parser.ParseComments); err != nil {
		return nil, nil, fmt.Errorf("generated code does not parse: %w", err)
	}

	return out, expansions, nil
}

// Check collects diagnostics for an already parsed file without rewriting it.
func Check(fset *token.FileSet, file *ast.File, src []byte) []diag.Report {
	var rep diag.Reporter
	plan(newSource(fset, file, src), &rep)

	return rep.Reports()
}

// syntaxError turns parser errors into SPW000 reports.
func syntaxError(err error) error {
	var rep diag.Reporter
	phase := rep.Phase(diag.PhaseParse)

	var list scanner.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			phase.Report(spanrules.SourceSyntax(), e.Msg, e.Pos)
		}
	} else {
		phase.Report(spanrules.SourceSyntax(), err.Error(), token.Position{})
	}

	return rep.Err()
}
