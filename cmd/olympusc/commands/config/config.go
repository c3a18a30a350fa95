// Package config implements the olympusc "config" command group.
package config

import "github.com/spf13/cobra"

// Cmd is the "config" parent command.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect Olympus configuration surfaces",
}

func init() {
	Cmd.AddCommand(schemaCmd)
}
