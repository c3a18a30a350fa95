package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PrintYAML writes data as YAML to w, followed by a "# warning:" comment
// line for each entry in data.Warnings() if data implements Warner —
// collisions and similar non-fatal findings are already part of the
// encoded document as plain fields, so the comment is a belt-and-braces
// nudge for a human skimming the output rather than the record of truth.
func PrintYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		_ = encoder.Close()
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if warner, ok := data.(Warner); ok {
		for _, msg := range warner.Warnings() {
			fmt.Fprintf(w, "# warning: %s\n", msg)
		}
	}
	return nil
}
