package a

import "context"

//spanwrap:sync(1)
func add(a, b int) int {
	return a + b
}

//spanwrap:async(2)
func fetch(ctx context.Context, id int) error {
	return ctx.Err()
}

//spanwrap:sync(3)
func wrongEntry(ctx context.Context) {} // want `SPW100: unexpected context-aware function with //spanwrap:sync`

//spanwrap:async-fine(4)
func blankContext(_ context.Context) {} // want `SPW007: context parameter of blankContext must be named`

//spanwrap:async(5)
func twoResults() (int, error) { return 0, nil } // want `SPW009: function twoResults must return exactly one future value, got 2 results`

//spanwrap:sync(6)
func reserved() {
	spanwrapCount := 1 // want `SPW008: identifier spanwrapCount uses the reserved prefix "spanwrap"`
	_ = spanwrapCount
}

func host() {
	//spanwrap:sync(7) // want `SPW004: directive inside the body of host`
}
