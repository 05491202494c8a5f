// Package spancheck reports misplaced or malformed spanwrap directives at vet time.
package spancheck

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/sirkon/spanwrap/internal/rewrite"
)

const doc = `spanwrap checks //spanwrap directives can be expanded

Every file of the package goes through the same checks the rewriter runs,
nothing is rewritten.`

// Analyzer is the spanwrap vet check.
var Analyzer = &analysis.Analyzer{
	Name:     "spanwrap",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.File)(nil),
	}

	var err error
	pector.Preorder(nodeFilter, func(node ast.Node) {
		if err != nil {
			return
		}
		err = checkFile(pass, node.(*ast.File))
	})

	return nil, err
}

func checkFile(pass *analysis.Pass, file *ast.File) error {
	tok := pass.Fset.File(file.Package)
	if tok == nil {
		return nil
	}

	src, err := pass.ReadFile(tok.Name())
	if err != nil {
		return err
	}

	for _, rep := range rewrite.Check(pass.Fset, file, src) {
		pass.Report(analysis.Diagnostic{
			Pos:      tok.Pos(rep.Pos.Offset),
			Category: rep.RuleCode.Code(),
			Message:  rep.RuleCode.Code() + ": " + rep.Message,
		})
	}

	return nil
}
