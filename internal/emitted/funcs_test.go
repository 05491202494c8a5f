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
	spanwrapSpan := minitrace.NewSpan(uint32(/*line testdata/funcs.go:14:17*/7))
	spanwrapGuard := spanwrapSpan.Enter()
	defer spanwrapGuard.Exit()
/*line testdata/funcs.go:15:25*/
	return a + b
}

//spanwrap:sync(8)
func abs(x int) int {
	spanwrapSpan := minitrace.NewSpan(uint32(/*line testdata/funcs.go:19:17*/8))
	spanwrapGuard := spanwrapSpan.Enter()
	defer spanwrapGuard.Exit()
/*line testdata/funcs.go:20:22*/
	if x < 0 {
		return -x
	}
	return x
}

//spanwrap:async(3)
func fetch(ctx context.Context, id int) (string, error) {
	spanwrapSpan := minitrace.NewSpan(uint32(/*line testdata/funcs.go:27:18*/3))
	ctx, spanwrapTask := minitrace.Instrument(ctx, spanwrapSpan)
	defer spanwrapTask.Done()
/*line testdata/funcs.go:28:58*/
	if id < 0 {
		return "", errNegative
	}
	return "item", ctx.Err()
}

//spanwrap:async-fine(4)
func receive(ctx context.Context, ch <-chan string) (string, error) {
	spanwrapSpan := minitrace.NewSpan(uint32(/*line testdata/funcs.go:35:23*/4))
	ctx, spanwrapTask := minitrace.InstrumentFine(ctx, spanwrapSpan)
	defer spanwrapTask.Done()
/*line testdata/funcs.go:36:70*/
	return minitrace.Await(ctx, ch)
}

//spanwrap:async(9)
func load(id int) minitrace.Future[int] {
	spanwrapSpan := minitrace.NewSpan(uint32(/*line testdata/funcs.go:40:18*/9))
	return minitrace.Box(spanwrapSpan, func() minitrace.Future[int] {/*line testdata/funcs.go:41:42*/
	return minitrace.Lazy(func(ctx context.Context) (int, error) {
		return id * 2, ctx.Err()
	})
}())}

//spanwrap:async-fine(10)
func loadFine(ch <-chan string) minitrace.Future[string] {
	spanwrapSpan := minitrace.NewSpan(uint32(/*line testdata/funcs.go:47:23*/10))
	return minitrace.Box(spanwrapSpan, func() minitrace.Future[string] {/*line testdata/funcs.go:48:59*/
	return minitrace.Chan(ch)
}())}
