// Package fnir defines the intermediate representation of a function declaration
// selected for span instrumentation.
//
// Entities of this package keep every piece of the declaration as verbatim source
// text together with its position. The rewriter never reformats a signature: it
// reads it into a Function, decides which wrapping applies and writes the very same
// bytes back around a new body.
package fnir
