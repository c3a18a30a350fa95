package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/olympusrpc/olympus/pkg/config"
)

var schemaOutput string
var schemaSurface string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate a JSON Schema for CodegenConfig or RuntimeConfig",
	Long: `schema emits a JSON Schema for one of the two configuration
surfaces Olympus loads via Viper: the code generator's CodegenConfig, or
the dispatch runtime's RuntimeConfig.

The schema can be used for:
  - IDE autocompletion (VS Code, IntelliJ, etc.)
  - Configuration file validation
  - Documentation generation

Examples:
  # Print the runtime config schema to stdout
  olympusc config schema

  # Print the codegen config schema
  olympusc config schema --surface codegen

  # Save schema to file
  olympusc config schema --output runtime.schema.json`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Output file (default: stdout)")
	schemaCmd.Flags().StringVar(&schemaSurface, "surface", "runtime", "Which config surface to reflect: runtime|codegen")
}

func runSchema(cmd *cobra.Command, args []string) error {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var schema *jsonschema.Schema
	switch schemaSurface {
	case "runtime":
		schema = reflector.Reflect(&config.RuntimeConfig{})
		schema.Title = "Olympus Runtime Configuration"
		schema.Description = "Configuration schema for the Olympus dispatch runtime"
	case "codegen":
		schema = reflector.Reflect(&config.CodegenConfig{})
		schema.Title = "Olympus Codegen Configuration"
		schema.Description = "Configuration schema for the Olympus code generator"
	default:
		return fmt.Errorf("unknown --surface %q (want runtime or codegen)", schemaSurface)
	}
	schema.Version = "https://json-schema.org/draft/2020-12/schema"

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if schemaOutput != "" {
		if err := os.WriteFile(schemaOutput, schemaJSON, 0o644); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", schemaOutput)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
	return nil
}
