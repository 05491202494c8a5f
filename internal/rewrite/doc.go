// Package rewrite instruments Go functions annotated with spanwrap directives.
//
// A file is parsed, every directive is checked and attached to its function,
// each function gets a wrapping variant by its entry point and asyncness, and
// new bodies are spliced into the original bytes. Everything outside of the
// instrumented bodies stays as it was, and line directives keep positions of
// the original body text. A file with any problem produces no output.
package rewrite
