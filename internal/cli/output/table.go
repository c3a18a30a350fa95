package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by types that can render themselves as a table.
type TableRenderer interface {
	// Headers returns the column headers for the table.
	Headers() []string
	// Rows returns the data rows for the table.
	Rows() [][]string
}

// Warner is implemented by report data whose table rendering should be
// followed by non-fatal warnings that don't fit any column — Olympus's
// inspect report uses this to flag two declared procedures whose wire
// Fingerprint collides.
type Warner interface {
	Warnings() []string
}

// PrintTable writes data as a formatted table to w. If data implements
// Warner, its warnings are written to warnW after the table, one per
// line; pass warnW as w to share the table's stream, or nil to discard
// them.
func PrintTable(w io.Writer, data TableRenderer, warnW io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())

	// Configure table style for clean output
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range data.Rows() {
		table.Append(row)
	}

	table.Render()

	if warner, ok := data.(Warner); ok && warnW != nil {
		for _, msg := range warner.Warnings() {
			fmt.Fprintf(warnW, "warning: %s\n", msg)
		}
	}

	return nil
}
