package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olympusrpc/olympus/internal/cli/prompt"
	"github.com/olympusrpc/olympus/internal/codegen"
	"github.com/olympusrpc/olympus/internal/diag"
	"github.com/olympusrpc/olympus/internal/parser"
	"github.com/olympusrpc/olympus/internal/verifier"
	"github.com/olympusrpc/olympus/pkg/config"
)

// CodegenError is returned when compile is asked to target a language
// this implementation does not generate.
type CodegenError struct {
	Language string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("unsupported code generation target: %q (only \"go\" is implemented)", e.Language)
}

var compileFlags struct {
	overwrite                   bool
	namingConvention            string
	typeNamingConvention        string
	enumVariantNamingConvention string
	structFieldNamingConvention string
	procNamingConvention        string
	rsCrate                     bool
	rsCrateName                 string
	packageName                 string
}

var compileCmd = &cobra.Command{
	Use:   "compile <input> <output> <language>",
	Short: "Compile an Olympus IDL file into generated bindings",
	Long: `compile lexes, parses and verifies input, then generates bindings
for the requested language and writes them to output.

Only "go" is an implemented target; --rs-crate and --rs-crate-name are
accepted so existing invocations keep parsing, but are no-ops here.

Examples:
  olympusc compile fileservice.olympus fileservice_gen.go go
  olympusc compile fileservice.olympus fileservice_gen.go go --overwrite
  olympusc compile fileservice.olympus fileservice_gen.go go --naming-convention snake`,
	Args: cobra.ExactArgs(3),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().BoolVar(&compileFlags.overwrite, "overwrite", false, "Overwrite an existing output file without prompting")
	compileCmd.Flags().StringVar(&compileFlags.namingConvention, "naming-convention", "", "Global naming convention override (applies to all four categories)")
	compileCmd.Flags().StringVar(&compileFlags.typeNamingConvention, "type-naming-convention", "pascal", "Naming convention for enum/struct type names")
	compileCmd.Flags().StringVar(&compileFlags.enumVariantNamingConvention, "enum-variant-naming-convention", "pascal", "Naming convention for enum variant names")
	compileCmd.Flags().StringVar(&compileFlags.structFieldNamingConvention, "struct-field-naming-convention", "pascal", "Naming convention for struct field names")
	compileCmd.Flags().StringVar(&compileFlags.procNamingConvention, "proc-naming-convention", "pascal", "Naming convention for generated procedure identifiers")
	compileCmd.Flags().BoolVar(&compileFlags.rsCrate, "rs-crate", false, "Accepted for flag-surface compatibility; no-op")
	compileCmd.Flags().StringVar(&compileFlags.rsCrateName, "rs-crate-name", "", "Accepted for flag-surface compatibility; no-op")
	compileCmd.Flags().StringVar(&compileFlags.packageName, "package-name", "olympusgen", "Go package name emitted into the generated file")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, output, language := args[0], args[1], args[2]

	if language != "go" {
		return &CodegenError{Language: language}
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	file, d := parser.Parse(input, string(src))
	if d != nil {
		diag.Render(cmd.ErrOrStderr(), d)
		return d
	}

	fs := verifier.FileSet{
		input: {File: file, Source: &diag.Source{Name: input, Text: string(src)}},
	}
	if d := verifier.Verify(fs); d != nil {
		diag.Render(cmd.ErrOrStderr(), d)
		return d
	}

	cg := config.CodegenConfig{
		Language:     language,
		PackageName:  compileFlags.packageName,
		Types:        resolveConvention(compileFlags.typeNamingConvention),
		EnumVariants: resolveConvention(compileFlags.enumVariantNamingConvention),
		StructFields: resolveConvention(compileFlags.structFieldNamingConvention),
		Procedures:   resolveConvention(compileFlags.procNamingConvention),
		Overwrite:    compileFlags.overwrite,
	}
	if err := config.Validate(cg); err != nil {
		return fmt.Errorf("invalid naming convention: %w", err)
	}

	if !cg.Overwrite {
		if _, err := os.Stat(output); err == nil {
			ok, perr := prompt.ConfirmOverwrite(output)
			if perr != nil {
				if errors.Is(perr, prompt.ErrAborted) {
					return fmt.Errorf("compile aborted")
				}
				return perr
			}
			if !ok {
				return fmt.Errorf("compile aborted: %s exists and was not overwritten", output)
			}
		}
	}

	generated, err := codegen.Generate(file, codegen.Config{
		PackageName: cg.PackageName,
		Naming:      cg.NamingConfig(),
	})
	if err != nil {
		return fmt.Errorf("generating %s: %w", output, err)
	}

	if err := os.WriteFile(output, []byte(generated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d procedures)\n", output, len(file.Procedures))
	return nil
}

// resolveConvention applies --naming-convention as a global override when
// set, collapsing all four per-category flags to one convention.
func resolveConvention(category string) string {
	if compileFlags.namingConvention != "" {
		return compileFlags.namingConvention
	}
	return category
}
