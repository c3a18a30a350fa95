// Package commands implements the olympusc CLI commands.
package commands

import (
	configcmd "github.com/olympusrpc/olympus/cmd/olympusc/commands/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "olympusc",
	Short: "Olympus IDL compiler and schema inspector",
	Long: `olympusc is the command-line front-end for the Olympus schema
compiler: it lexes, parses and verifies .olympus IDL files, generates Go
bindings from them, and inspects their declared procedures and
Fingerprints before they hit the wire.

Use "olympusc [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(runExampleCmd)
}
