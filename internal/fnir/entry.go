package fnir

import (
	"encoding"
	"fmt"
)

// EntryPoint identifies the directive used on a function.
type EntryPoint int

const (
	entryPointInvalid EntryPoint = iota

	// EntrySync is //spanwrap:sync(tag), synchronous functions only.
	EntrySync

	// EntryAsync is //spanwrap:async(tag).
	EntryAsync

	// EntryAsyncFine is //spanwrap:async-fine(tag), async with resume/suspend resolution.
	EntryAsyncFine
)

var entryPointValueMap = map[EntryPoint]string{
	EntrySync:      "sync",
	EntryAsync:     "async",
	EntryAsyncFine: "async-fine",
}

// EntryPoints returns all valid entry points in their canonical order.
func EntryPoints() []EntryPoint {
	return []EntryPoint{EntrySync, EntryAsync, EntryAsyncFine}
}

func (e EntryPoint) String() string {
	v, ok := entryPointValueMap[e]
	if !ok {
		return fmt.Sprintf("invalid(%d)", e)
	}

	return v
}

// Valid reports whether e is one of the known entry points.
func (e EntryPoint) Valid() bool {
	_, ok := entryPointValueMap[e]
	return ok
}

// Directive renders the directive comment prefix for the entry point.
func (e EntryPoint) Directive() string {
	return DirectivePrefix + e.String()
}

var (
	_ encoding.TextMarshaler   = EntryPoint(0)
	_ encoding.TextUnmarshaler = (*EntryPoint)(nil)
)

func (e EntryPoint) MarshalText() ([]byte, error) {
	v, ok := entryPointValueMap[e]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid EntryPoint(%d)", e)
	}

	return []byte(v), nil
}

func (e *EntryPoint) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range entryPointValueMap {
		if v == text {
			*e = k
			return nil
		}
	}

	return fmt.Errorf("unknown entry point %q", text)
}

// DirectivePrefix starts every spanwrap directive comment.
const DirectivePrefix = "//spanwrap:"
