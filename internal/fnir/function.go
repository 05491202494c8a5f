package fnir

import (
	"go/ast"
	"go/token"
)

// Fragment is a piece of source code kept verbatim.
type Fragment struct {
	// Text is the exact source text of the fragment.
	Text string

	// Pos and End delimit the fragment in the file set it was read from.
	Pos token.Pos
	End token.Pos
}

// IsZero reports whether the fragment is absent from the declaration.
func (f Fragment) IsZero() bool {
	return f.Pos == token.NoPos && f.Text == ""
}

// Function represents a function declaration annotated for instrumentation.
//
//	//spanwrap:sync(7)
//	func (s *Store[K]) Get(key K) (V, error) { … }
//
// Name: "Get", Results: "(V, error)",
// Signature: "func (s *Store[K]) Get(key K) (V, error) ".
type Function struct {
	// Name is the function identifier. Visibility is a property of the name.
	Name    string
	NamePos token.Pos

	// Results is the result list as written, parens included when present. Zero
	// when the function returns nothing.
	Results Fragment

	// ResultCount is the number of values the function returns.
	ResultCount int

	// Signature is the whole declaration text from the func keyword up to (but not
	// including) the opening brace of the body.
	Signature Fragment

	// Async is set when the function's first parameter is a context.Context.
	Async bool

	// Context is the name of the context parameter of an asynchronous function.
	// Empty or "_" when the parameter is unnamed or blank.
	Context    string
	ContextPos token.Pos

	// Body is the body text including both braces.
	Body Fragment
}

// BodyInner returns the body text without the enclosing braces.
func (f *Function) BodyInner() string {
	if len(f.Body.Text) < 2 {
		return ""
	}

	return f.Body.Text[1 : len(f.Body.Text)-1]
}

// Tag is the expression given to a directive. It is parsed to check it is a
// single well-formed expression and otherwise treated as an opaque fragment:
// the emitted code converts it to uint32 and the compiler checks the rest.
type Tag struct {
	Fragment

	Expr ast.Expr
}

// Directive is a parsed spanwrap directive comment.
type Directive struct {
	Entry EntryPoint
	Tag   Tag

	// Pos is the position of the comment itself.
	Pos token.Pos
}
