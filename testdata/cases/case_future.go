package cases

import (
	"context"

	"github.com/sirkon/spanwrap/minitrace"
)

// load returns a future resolved later.
//
//spanwrap:async(9)
func load(id int) minitrace.Future[int] {
	return minitrace.Lazy(func(ctx context.Context) (int, error) {
		return id * 2, ctx.Err()
	})
}

//spanwrap:async-fine(10)
func loadFine(ch <-chan string) (f minitrace.Future[string]) {
	return minitrace.Chan(ch)
}
