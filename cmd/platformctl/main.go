// Command platformctl inspects the data platform topology offline. It builds
// the same graph the Pulumi program deploys and renders it without calling
// any cloud API.
package main

import (
	"fmt"
	"os"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
