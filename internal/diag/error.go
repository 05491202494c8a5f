package diag

import (
	"errors"
	"strings"

	"github.com/sirkon/spanwrap/internal/spanrules"
)

// Error is returned when rewriting stops on diagnostics. It is always fatal for
// the file it was produced for: no partial output exists alongside it.
type Error struct {
	Reports []Report
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	for i, rep := range e.Reports {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(rep.String())
	}

	return b.String()
}

// Has reports whether any report carries the given rule.
func (e *Error) Has(rule spanrules.Rule) bool {
	for _, rep := range e.Reports {
		if rep.RuleCode == rule {
			return true
		}
	}

	return false
}

// Is reports whether target is an *Error sharing at least one rule with e, or
// any *Error when target has no reports.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if len(t.Reports) == 0 {
		return true
	}
	for _, rep := range t.Reports {
		if e.Has(rep.RuleCode) {
			return true
		}
	}

	return false
}

// Reports extracts diagnostics out of err, if it carries any.
func Reports(err error) []Report {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Reports
	}

	return nil
}
