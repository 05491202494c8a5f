package cases

// add sums two numbers.
//
//spanwrap:sync(7)
func add(a, b int) int {
	return a + b
}

// abs has an early return.
//
//spanwrap:sync( categoryAbs )
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func untouched() {}

//spanwrap:sync(categoryAbs + 1)
func (c *counter) inc() { c.n++ }

type counter struct {
	n int
}

const categoryAbs = 8
