package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/sirkon/spanwrap/internal/diag"
	"github.com/sirkon/spanwrap/internal/rewrite"
)

// sourceFile is a Go file of a loaded package.
type sourceFile struct {
	pkgPath string
	path    string
}

// rewritten is the result of a successful rewrite of a file.
type rewritten struct {
	sourceFile
	res *rewrite.Result
}

// loadSources resolves package patterns into their Go files.
func (a *app) loadSources(patterns []string, tests bool) ([]sourceFile, error) {
	pkgs, err := packages.Load(&packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles,
		Tests: tests,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, errors.New("packages contain errors")
	}

	seen := map[string]struct{}{}
	var res []sourceFile
	for _, pkg := range pkgs {
		for _, file := range pkg.GoFiles {
			if _, ok := seen[file]; ok {
				continue
			}
			seen[file] = struct{}{}

			res = append(res, sourceFile{
				pkgPath: pkg.PkgPath,
				path:    file,
			})
		}
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].path < res[j].path
	})

	a.logger.Debug("packages loaded", zap.Int("packages", len(pkgs)), zap.Int("files", len(res)))
	return res, nil
}

// rewriteAll rewrites every file. When any file fails, all diagnostics are
// returned and no result is.
func (a *app) rewriteAll(files []sourceFile) ([]rewritten, []diag.Report, error) {
	sources := make([][]byte, len(files))
	scopes := map[string][]string{}
	for i, file := range files {
		src, err := os.ReadFile(file.path)
		if err != nil {
			return nil, nil, fmt.Errorf("read source file: %w", err)
		}
		sources[i] = src

		// Syntax errors are reported by the rewrite itself.
		if _, names, err := rewrite.PackageScope(file.path, src); err == nil {
			scopes[file.pkgPath] = append(scopes[file.pkgPath], names...)
		}
	}

	rw := rewrite.New(a.cfg)

	var res []rewritten
	var reports []diag.Report
	for i, file := range files {
		r, err := rw.WithPackageScope(scopes[file.pkgPath]).Rewrite(file.path, sources[i])
		if err != nil {
			reps := diag.Reports(err)
			if reps == nil {
				return nil, nil, fmt.Errorf("rewrite %s: %w", file.path, err)
			}
			reports = append(reports, reps...)
			continue
		}

		if r.Changed {
			a.logger.Debug("file instrumented", zap.String("file", file.path), zap.Int("functions", len(r.Expansions)))
		}
		res = append(res, rewritten{sourceFile: file, res: r})
	}

	if len(reports) > 0 {
		return nil, reports, nil
	}

	return res, nil, nil
}

// siblingScope collects package level names declared by the other files of the
// directory belonging to the same package as the file. Build constraints are
// not evaluated, a name declared under a foreign one only costs an alias.
func (a *app) siblingScope(path string, src []byte) []string {
	pkg, _, err := rewrite.PackageScope(path, src)
	if err != nil {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.go"))
	if err != nil {
		return nil
	}

	var names []string
	for _, m := range matches {
		if filepath.Clean(m) == filepath.Clean(path) {
			continue
		}

		data, err := os.ReadFile(m)
		if err != nil {
			a.logger.Debug("skip sibling file", zap.String("file", m), zap.Error(err))
			continue
		}
		p, ns, err := rewrite.PackageScope(m, data)
		if err != nil || p != pkg {
			continue
		}
		names = append(names, ns...)
	}

	return names
}

// outputPath maps a source file into the output directory.
func outputPath(dir string, file sourceFile) string {
	pkg := strings.ReplaceAll(file.pkgPath, "/", string(filepath.Separator))
	return filepath.Join(dir, pkg, filepath.Base(file.path))
}
