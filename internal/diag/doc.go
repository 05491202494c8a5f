// Package diag collects spanwrap diagnostics.
//
// A Reporter is shared by all phases of a file rewrite. Each phase reports
// through its own ReporterPhase; once rewriting a file is over, Err turns the
// collected reports into a single fatal *Error ordered by source position.
package diag
