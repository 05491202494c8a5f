package rewrite

import (
	"fmt"

	"github.com/sirkon/spanwrap/internal/fnir"
)

// ShapeError is returned by Classify for an asynchronous function given to the
// sync entry point. It is the only combination without a wrapping strategy.
type ShapeError struct {
	Entry fnir.EntryPoint
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf(
		"unexpected context-aware function with %s\nif want to trace asynchronous function, consider %s",
		e.Entry.Directive(),
		fnir.EntryAsync.Directive(),
	)
}

// Classify selects the wrapping strategy for the given entry point and asynchrony.
//
//	entry        async   plain
//	sync         error   SyncSpan
//	async        native  boxed future
//	async-fine   native  boxed future  (fine variants)
func Classify(entry fnir.EntryPoint, async bool) (fnir.Variant, error) {
	switch entry {
	case fnir.EntrySync:
		if async {
			return nil, &ShapeError{Entry: entry}
		}
		return fnir.SyncSpan{}, nil
	case fnir.EntryAsync, fnir.EntryAsyncFine:
		fine := entry == fnir.EntryAsyncFine
		if async {
			return fnir.AsyncNative{FineGrained: fine}, nil
		}
		return fnir.AsyncBoxedFuture{FineGrained: fine}, nil
	default:
		return nil, fmt.Errorf("invalid entry point %s", entry)
	}
}
