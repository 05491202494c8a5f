package fnir

import "fmt"

// Variant is the wrapping strategy selected for a function. Exactly one
// variant applies per expansion:
//
//	SyncSpan          - span guard held for the whole call
//	AsyncNative       - context-aware function, span follows the running task
//	AsyncBoxedFuture  - function returning a future, span starts when it is awaited
type Variant interface {
	fmt.Stringer
	isVariant()

	// Fine reports whether resume/suspend resolution was requested.
	Fine() bool
}

// SyncSpan wraps a synchronous function.
type SyncSpan struct{}

// AsyncNative wraps a function taking a context.Context first.
type AsyncNative struct {
	FineGrained bool
}

// AsyncBoxedFuture wraps a plain function whose body evaluates to a future.
type AsyncBoxedFuture struct {
	FineGrained bool
}

func (SyncSpan) Fine() bool           { return false }
func (v AsyncNative) Fine() bool      { return v.FineGrained }
func (v AsyncBoxedFuture) Fine() bool { return v.FineGrained }

func (SyncSpan) String() string { return "sync-span" }

func (v AsyncNative) String() string {
	if v.FineGrained {
		return "async-native(fine)"
	}
	return "async-native"
}

func (v AsyncBoxedFuture) String() string {
	if v.FineGrained {
		return "async-boxed-future(fine)"
	}
	return "async-boxed-future"
}

func (SyncSpan) isVariant()         {}
func (AsyncNative) isVariant()      {}
func (AsyncBoxedFuture) isVariant() {}
