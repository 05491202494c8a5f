// Command spanwrapvet runs the spanwrap directive checks as a vet tool:
//
//	go vet -vettool=$(which spanwrapvet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sirkon/spanwrap/internal/spancheck"
)

func main() {
	singlechecker.Main(spancheck.Analyzer)
}
