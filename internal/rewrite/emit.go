package rewrite

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// edit replaces src[start:end] with text.
type edit struct {
	start int
	end   int
	text  string
}

// apply splices edits into src. Edits must not overlap.
func apply(src []byte, edits []edit) ([]byte, error) {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].start < edits[j].start
	})

	var b bytes.Buffer
	b.Grow(len(src) + len(src)/4)
	last := 0
	for _, e := range edits {
		if e.start < last || e.end < e.start || e.end > len(src) {
			return nil, fmt.Errorf("overlapping or out of range edit [%d:%d]", e.start, e.end)
		}
		b.Write(src[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.Write(src[last:])

	return b.Bytes(), nil
}

// runtimeImport decides the local name of the runtime package in the file and
// returns the edit adding the import, if one is needed. The import goes to the
// package clause line so no line of the file moves.
func runtimeImport(s *source, path, name string, declared map[string]struct{}) (string, *edit) {
	if existing := importName(s.file, path); existing != "" {
		for _, spec := range s.file.Imports {
			if spec.Name == nil && importPath(spec) == path {
				// Unaliased import: the local name is the package name.
				return name, nil
			}
		}
		return existing, nil
	}

	if _, ok := declared[name]; ok || nameTaken(s.file, name) {
		name = reservedPrefix + name
	}

	off := s.offset(s.file.Name.End())
	return name, &edit{
		start: off,
		end:   off,
		text:  fmt.Sprintf("; import %s %s", name, strconv.Quote(path)),
	}
}

// nameTaken reports whether the name is declared or referenced anywhere in the file.
func nameTaken(file *ast.File, name string) bool {
	for _, spec := range file.Imports {
		local := ""
		if spec.Name != nil {
			local = spec.Name.Name
		} else {
			p := importPath(spec)
			local = p[strings.LastIndex(p, "/")+1:]
		}
		if local == name {
			return true
		}
	}

	taken := false
	ast.Inspect(file, func(n ast.Node) bool {
		if taken {
			return false
		}
		if id, ok := n.(*ast.Ident); ok && id.Name == name {
			taken = true
		}
		return true
	})

	return taken
}

// PackageScope returns the package name of the file and the names it declares
// at package level.
func PackageScope(filename string, src []byte) (pkg string, names []string, err error) {
	file, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.SkipObjectResolution)
	if err != nil {
		return "", nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, sp.Name.Name)
				case *ast.ValueSpec:
					for _, id := range sp.Names {
						names = append(names, id.Name)
					}
				}
			}
		}
	}

	return file.Name.Name, names, nil
}

func importPath(spec *ast.ImportSpec) string {
	p, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return ""
	}

	return p
}
