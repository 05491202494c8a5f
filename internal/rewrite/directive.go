package rewrite

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/sirkon/spanwrap/internal/fnir"
	"github.com/sirkon/spanwrap/internal/spanrules"
)

// directiveError is a diagnostic bound to a position inside a directive comment.
type directiveError struct {
	rule spanrules.Rule
	pos  token.Pos
	msg  string
}

func (e *directiveError) Error() string {
	return e.rule.Code() + ": " + e.msg
}

// isDirective reports whether the comment is a spanwrap directive.
func isDirective(c *ast.Comment) bool {
	return strings.HasPrefix(c.Text, fnir.DirectivePrefix)
}

// parseDirective reads a //spanwrap:<entry>(<tag>) comment.
func parseDirective(c *ast.Comment) (fnir.Directive, *directiveError) {
	rest := strings.TrimRight(c.Text[len(fnir.DirectivePrefix):], " \t")
	base := c.Slash + token.Pos(len(fnir.DirectivePrefix))

	open := strings.IndexByte(rest, '(')
	if open < 0 {
		var entry fnir.EntryPoint
		if err := entry.UnmarshalText([]byte(rest)); err == nil {
			return fnir.Directive{}, &directiveError{
				rule: spanrules.MalformedDirective(),
				pos:  base + token.Pos(len(rest)),
				msg:  fmt.Sprintf("missing tag: want %s(<tag>)", entry.Directive()),
			}
		}

		return fnir.Directive{}, &directiveError{
			rule: spanrules.MalformedDirective(),
			pos:  c.Slash,
			msg:  fmt.Sprintf("malformed directive %q: want %s<entry>(<tag>)", c.Text, fnir.DirectivePrefix),
		}
	}

	var entry fnir.EntryPoint
	if err := entry.UnmarshalText([]byte(rest[:open])); err != nil {
		return fnir.Directive{}, &directiveError{
			rule: spanrules.UnknownEntryPoint(),
			pos:  base,
			msg:  fmt.Sprintf("unknown entry point %q: want one of %s", rest[:open], entryPointList()),
		}
	}

	if !strings.HasSuffix(rest, ")") {
		return fnir.Directive{}, &directiveError{
			rule: spanrules.MalformedDirective(),
			pos:  base + token.Pos(len(rest)),
			msg:  fmt.Sprintf("directive must end with ')': want %s(<tag>)", entry.Directive()),
		}
	}

	raw := rest[open+1 : len(rest)-1]
	lead := len(raw) - len(strings.TrimLeft(raw, " \t"))
	text := strings.TrimSpace(raw)
	pos := base + token.Pos(open+1+lead)
	if text == "" {
		return fnir.Directive{}, &directiveError{
			rule: spanrules.InvalidTag(),
			pos:  pos,
			msg:  fmt.Sprintf("missing tag expression in %s(<tag>)", entry.Directive()),
		}
	}

	expr, err := parser.ParseExprFrom(token.NewFileSet(), "", text, 0)
	if err != nil {
		return fnir.Directive{}, tagError(entry, text, pos, err)
	}

	return fnir.Directive{
		Entry: entry,
		Tag: fnir.Tag{
			Fragment: fnir.Fragment{
				Text: text,
				Pos:  pos,
				End:  pos + token.Pos(len(text)),
			},
			Expr: expr,
		},
		Pos: c.Slash,
	}, nil
}

// tagError points at the offending token inside the tag.
func tagError(entry fnir.EntryPoint, text string, pos token.Pos, err error) *directiveError {
	msg := err.Error()
	offset := 0

	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		msg = list[0].Msg
		if list[0].Pos.Column > 0 {
			offset = list[0].Pos.Column - 1
		}
	}
	if offset > len(text) {
		offset = len(text)
	}

	return &directiveError{
		rule: spanrules.InvalidTag(),
		pos:  pos + token.Pos(offset),
		msg:  fmt.Sprintf("invalid tag %q of %s: %s", text, entry.Directive(), msg),
	}
}

func entryPointList() string {
	var names []string
	for _, e := range fnir.EntryPoints() {
		names = append(names, e.String())
	}

	return strings.Join(names, ", ")
}
