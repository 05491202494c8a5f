// Package spanrules defines the canonical SPW-series diagnostic codes reported by spanwrap.
//
// Every condition that stops a function from being rewritten has a stable numeric
// and textual identity, so the CLI, the vet analyzer and tests all agree on what
// went wrong.
//
// # Structure
//
// Codes follow the format “SPW<NNN>: <Name>” and are grouped by error class:
//
//	000–099  Parse errors: the directive or the function cannot be read or rewritten
//	100–199  Shape errors: the entry point does not fit the function's asynchrony
//
// Example:
//
//	spanrules.SPW100AsyncOnSyncEntry.String()      → "SPW100: AsyncOnSyncEntry"
//	spanrules.SPW100AsyncOnSyncEntry.Kind()        → "shape error"
//
// # Notes
//
//   - Codes are stable; never renumber an existing one.
//   - Both classes are fatal: a file with any diagnostic is not emitted.
package spanrules
