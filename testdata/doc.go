// Package main placed in testdata made "main" to avoid being imported by users who somehow
// decide this is a good idea – it is not. Files of cases/ are inputs of rewrite tests,
// *.golden files next to them are the expected outputs.
package main
