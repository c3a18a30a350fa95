package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olympusrpc/olympus/internal/ast"
	"github.com/olympusrpc/olympus/internal/cli/output"
	"github.com/olympusrpc/olympus/internal/diag"
	"github.com/olympusrpc/olympus/internal/parser"
	"github.com/olympusrpc/olympus/internal/verifier"
	"github.com/olympusrpc/olympus/pkg/fnv"
)

var inspectFlags struct {
	format string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List every declared procedure and its wire Fingerprint",
	Long: `inspect verifies an Olympus IDL file and prints every declared
procedure, its FNV-1a Fingerprint (hex), and its parameter and return
types, plus a warning for every pair of procedures that share a
Fingerprint — useful for confirming there are no collisions before a
schema change hits the wire.

Examples:
  olympusc inspect fileservice.olympus
  olympusc inspect fileservice.olympus --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFlags.format, "output", "o", "table", "Output format: table, json, yaml")
}

// ProcedureInfo is one row of an inspect report.
type ProcedureInfo struct {
	Procedure   string `json:"procedure" yaml:"procedure"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Params      string `json:"params" yaml:"params"`
	Returns     string `json:"returns" yaml:"returns"`
}

// InspectReport is the full JSON/YAML projection of an inspect run: every
// declared procedure plus any Fingerprint collisions found among them.
type InspectReport struct {
	Procedures []ProcedureInfo               `json:"procedures" yaml:"procedures"`
	Collisions []output.FingerprintCollision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

func (r InspectReport) Headers() []string {
	return []string{"Procedure", "Fingerprint", "Params", "Returns"}
}

func (r InspectReport) Rows() [][]string {
	rows := make([][]string, len(r.Procedures))
	for i, p := range r.Procedures {
		rows[i] = []string{p.Procedure, p.Fingerprint, p.Params, p.Returns}
	}
	return rows
}

// Warnings implements output.Warner: a Fingerprint collision has no
// column of its own in the table view, so PrintTable surfaces it here
// instead.
func (r InspectReport) Warnings() []string {
	msgs := make([]string, len(r.Collisions))
	for i, c := range r.Collisions {
		msgs[i] = c.Warning()
	}
	return msgs
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := output.ParseFormat(inspectFlags.format)
	if err != nil {
		return err
	}

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

	report := InspectReport{Procedures: make([]ProcedureInfo, 0, len(file.Procedures))}
	seen := make(map[fnv.Fingerprint]string)
	for _, proc := range file.Procedures {
		fp := fnv.Sum64(proc.Name.Name)
		if other, dup := seen[fp]; dup {
			report.Collisions = append(report.Collisions, output.FingerprintCollision{
				Fingerprint: fp.String(),
				First:       other,
				Second:      proc.Name.Name,
			})
		}
		seen[fp] = proc.Name.Name

		report.Procedures = append(report.Procedures, ProcedureInfo{
			Procedure:   proc.Name.Name,
			Fingerprint: fp.String(),
			Params:      paramsList(proc),
			Returns:     typeRefString(proc.Return),
		})
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), report)
	case output.FormatYAML:
		return output.PrintYAML(cmd.OutOrStdout(), report)
	default:
		return output.PrintTable(cmd.OutOrStdout(), report, cmd.ErrOrStderr())
	}
}

func paramsList(proc ast.Procedure) string {
	if len(proc.Params) == 0 {
		return "-"
	}
	parts := make([]string, len(proc.Params))
	for i, p := range proc.Params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name.Name, typeRefString(p.Type))
	}
	return strings.Join(parts, ", ")
}

func typeRefString(t ast.TypeRef) string {
	switch t.Kind {
	case ast.KindNothing:
		return "-"
	case ast.KindFixedInt:
		if t.Signed {
			return fmt.Sprintf("@int%d", t.Bits)
		}
		return fmt.Sprintf("@uint%d", t.Bits)
	case ast.KindVarInt:
		if t.Signed {
			return fmt.Sprintf("@varint%d", t.Bits)
		}
		return fmt.Sprintf("@varuint%d", t.Bits)
	case ast.KindString:
		return "@string"
	case ast.KindArray:
		return fmt.Sprintf("@array[%s]", typeRefString(*t.Elem))
	case ast.KindOption:
		return fmt.Sprintf("@option[%s]", typeRefString(*t.Elem))
	case ast.KindExternal:
		return t.External.Name
	default:
		return "?"
	}
}
