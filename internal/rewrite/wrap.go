package rewrite

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/sirkon/spanwrap/internal/fnir"
)

// Names of generated locals. All of them start with reservedPrefix.
const (
	spanVar  = "spanwrapSpan"
	guardVar = "spanwrapGuard"
	taskVar  = "spanwrapTask"
)

// wrapper generates replacement bodies.
type wrapper struct {
	s *source

	// runtime is the local import name of the runtime package.
	runtime string

	// filename is written into line directives, empty disables them.
	filename string
}

// body returns the new body text for the function, braces included.
func (w *wrapper) body(x expansion) (string, error) {
	var b strings.Builder
	b.WriteString("{\n\t")
	fmt.Fprintf(&b, "%s := %s.NewSpan(uint32(%s%s))", spanVar, w.runtime, w.lineDirective(x.dir.Tag.Pos), x.dir.Tag.Text)

	inner := x.fn.BodyInner()
	switch v := x.variant.(type) {
	case fnir.SyncSpan:
		fmt.Fprintf(&b, "\n\t%s := %s.Enter()", guardVar, spanVar)
		fmt.Fprintf(&b, "\n\tdefer %s.Exit()", guardVar)
		w.original(&b, x.fn, inner)
		b.WriteByte('}')

	case fnir.AsyncNative:
		instrument := "Instrument"
		if v.Fine() {
			instrument = "InstrumentFine"
		}
		ctx := x.fn.Context
		fmt.Fprintf(&b, "\n\t%s, %s := %s.%s(%s, %s)", ctx, taskVar, w.runtime, instrument, ctx, spanVar)
		fmt.Fprintf(&b, "\n\tdefer %s.Done()", taskVar)
		w.original(&b, x.fn, inner)
		b.WriteByte('}')

	case fnir.AsyncBoxedFuture:
		// A future is boxed the same way for both async entry points: the fine
		// flag only affects context-aware calls.
		fmt.Fprintf(&b, "\n\treturn %s.Box(%s, func() %s {", w.runtime, spanVar, x.fn.Results.Text)
		b.WriteString(w.lineDirective(x.fn.Body.Pos + 1))
		b.WriteString(inner)
		b.WriteString("}())}")

	default:
		return "", fmt.Errorf("unsupported variant %T", x.variant)
	}

	return b.String(), nil
}

// original appends the original body statements after the generated prologue.
func (w *wrapper) original(b *strings.Builder, fn *fnir.Function, inner string) {
	dir := w.lineDirective(fn.Body.Pos + 1)
	if dir != "" || !strings.HasPrefix(inner, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(dir)
	b.WriteString(inner)
}

// lineDirective maps the text following it to the original position pos.
func (w *wrapper) lineDirective(pos token.Pos) string {
	if w.filename == "" {
		return ""
	}

	p := w.s.position(pos)
	return fmt.Sprintf("/*line %s:%d:%d*/", w.filename, p.Line, p.Column)
}
