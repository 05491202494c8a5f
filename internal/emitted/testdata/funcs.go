package emitted

import (
	"context"
	"errors"

	"github.com/sirkon/spanwrap/minitrace"
)

var errNegative = errors.New("negative id")

// add sums two numbers.
//
//spanwrap:sync(7)
func add(a, b int) int {
	return a + b
}

//spanwrap:sync(8)
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

//spanwrap:async(3)
func fetch(ctx context.Context, id int) (string, error) {
	if id < 0 {
		return "", errNegative
	}
	return "item", ctx.Err()
}

//spanwrap:async-fine(4)
func receive(ctx context.Context, ch <-chan string) (string, error) {
	return minitrace.Await(ctx, ch)
}

//spanwrap:async(9)
func load(id int) minitrace.Future[int] {
	return minitrace.Lazy(func(ctx context.Context) (int, error) {
		return id * 2, ctx.Err()
	})
}

//spanwrap:async-fine(10)
func loadFine(ch <-chan string) minitrace.Future[string] {
	return minitrace.Chan(ch)
}
