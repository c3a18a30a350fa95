package output

import (
	"encoding/json"
	"io"
)

// PrintJSON writes data as formatted JSON to w. Unlike PrintTable/PrintYAML,
// this never appends a Warner's warnings: JSON has no comment syntax, so a
// report's warnings (e.g. InspectReport.Collisions) travel as an ordinary
// field in the encoded struct instead of a side channel.
func PrintJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
