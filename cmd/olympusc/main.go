// Command olympusc is the Olympus IDL compiler front-end: it scaffolds,
// verifies and compiles .olympus schema files, inspects their declared
// procedures, checks a running process's health, and can emit a JSON
// Schema for the repository's own configuration surfaces.
package main

import (
	"fmt"
	"os"

	"github.com/olympusrpc/olympus/cmd/olympusc/commands"
	"github.com/olympusrpc/olympus/internal/diag"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Diagnostics already rendered their source excerpt to stderr
		// inside the command; everything else gets the one-line form.
		if _, rendered := err.(*diag.Diagnostic); !rendered {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
