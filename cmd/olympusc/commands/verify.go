package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olympusrpc/olympus/internal/diag"
	"github.com/olympusrpc/olympus/internal/parser"
	"github.com/olympusrpc/olympus/internal/verifier"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Lex, parse and verify an Olympus IDL file",
	Long: `verify runs the lexer, parser and verifier over an Olympus IDL
file and reports the first failure, if any, as a rendered diagnostic.

Examples:
  olympusc verify fileservice.olympus`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	file, d := parser.Parse(path, string(src))
	if d != nil {
		diag.Render(cmd.ErrOrStderr(), d)
		return d
	}

	fs := verifier.FileSet{
		path: {File: file, Source: &diag.Source{Name: path, Text: string(src)}},
	}
	if d := verifier.Verify(fs); d != nil {
		diag.Render(cmd.ErrOrStderr(), d)
		return d
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d enums, %d structs, %d procedures)\n",
		path, len(file.Enums), len(file.Structs), len(file.Procedures))
	return nil
}
