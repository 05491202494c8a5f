package cases

var minitrace = "shadowed"

//spanwrap:sync(1)
func name() string {
	return minitrace
}
