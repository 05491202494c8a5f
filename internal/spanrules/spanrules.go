package spanrules

import "fmt"

// Rule represents a spanwrap diagnostic code.
type Rule int

const (
	ruleInvalid Rule = iota

	SPW000SourceSyntax
	SPW001MalformedDirective
	SPW002UnknownEntryPoint
	SPW003InvalidTag
	SPW004DetachedDirective
	SPW005DuplicateDirective
	SPW006MissingBody
	SPW007UnnamedContext
	SPW008ReservedIdentifier
	SPW009BoxedFutureResults
	SPW100AsyncOnSyncEntry
)

// Kind is the error class of a rule.
type Kind int

const (
	_ Kind = iota
	KindParse
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindShape:
		return "shape error"
	default:
		return fmt.Sprintf("kind-unknown(%d)", k)
	}
}

// String returns the canonical code and short name of the rule.
// Example: "SPW100: AsyncOnSyncEntry"
func (r Rule) String() string {
	switch r {
	case SPW000SourceSyntax:
		return "SPW000: SourceSyntax"
	case SPW001MalformedDirective:
		return "SPW001: MalformedDirective"
	case SPW002UnknownEntryPoint:
		return "SPW002: UnknownEntryPoint"
	case SPW003InvalidTag:
		return "SPW003: InvalidTag"
	case SPW004DetachedDirective:
		return "SPW004: DetachedDirective"
	case SPW005DuplicateDirective:
		return "SPW005: DuplicateDirective"
	case SPW006MissingBody:
		return "SPW006: MissingBody"
	case SPW007UnnamedContext:
		return "SPW007: UnnamedContext"
	case SPW008ReservedIdentifier:
		return "SPW008: ReservedIdentifier"
	case SPW009BoxedFutureResults:
		return "SPW009: BoxedFutureResults"
	case SPW100AsyncOnSyncEntry:
		return "SPW100: AsyncOnSyncEntry"
	default:
		return fmt.Sprintf("rule-unknown(%d)", r)
	}
}

// Code returns the bare code of the rule, like "SPW003".
func (r Rule) Code() string {
	if r <= ruleInvalid || r > SPW100AsyncOnSyncEntry {
		return fmt.Sprintf("SPW???(%d)", r)
	}

	s := r.String()
	return s[:6]
}

// Kind returns the error class of the rule.
func (r Rule) Kind() Kind {
	if r == SPW100AsyncOnSyncEntry {
		return KindShape
	}

	return KindParse
}

// Description returns the human-readable explanation of the rule.
func (r Rule) Description() string {
	switch r {
	case SPW000SourceSyntax:
		return "Source file must parse."
	case SPW001MalformedDirective:
		return "Directive must look like //spanwrap:<entry>(<tag>)."
	case SPW002UnknownEntryPoint:
		return "Entry point must be one of sync, async, async-fine."
	case SPW003InvalidTag:
		return "Tag must be a single Go expression."
	case SPW004DetachedDirective:
		return "Directive must be in the doc comment of a function declaration."
	case SPW005DuplicateDirective:
		return "A function takes exactly one spanwrap directive."
	case SPW006MissingBody:
		return "Instrumented function must have a body."
	case SPW007UnnamedContext:
		return "Context parameter of an asynchronous function must be named."
	case SPW008ReservedIdentifier:
		return "Identifiers starting with spanwrap are reserved for generated code."
	case SPW009BoxedFutureResults:
		return "Function returning a boxed future must return exactly one value."
	case SPW100AsyncOnSyncEntry:
		return "Asynchronous function cannot be traced with the sync entry point."
	default:
		return fmt.Sprintf("unknown-rule(%d)", r)
	}
}

// Canonical constructors — for readability and stable call sites.

func SourceSyntax() Rule       { return SPW000SourceSyntax }
func MalformedDirective() Rule { return SPW001MalformedDirective }
func UnknownEntryPoint() Rule  { return SPW002UnknownEntryPoint }
func InvalidTag() Rule         { return SPW003InvalidTag }
func DetachedDirective() Rule  { return SPW004DetachedDirective }
func DuplicateDirective() Rule { return SPW005DuplicateDirective }
func MissingBody() Rule        { return SPW006MissingBody }
func UnnamedContext() Rule     { return SPW007UnnamedContext }
func ReservedIdentifier() Rule { return SPW008ReservedIdentifier }
func BoxedFutureResults() Rule { return SPW009BoxedFutureResults }
func AsyncOnSyncEntry() Rule   { return SPW100AsyncOnSyncEntry }
