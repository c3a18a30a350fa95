package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olympusrpc/olympus/internal/cli/prompt"
)

var initFlags struct {
	noninteractive bool
}

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Scaffold a new Olympus IDL file",
	Long: `init interactively scaffolds a new .olympus schema: a service name,
one example struct and one example RPC container with a single
no-argument procedure, written to file (default "schema.olympus").

With --non-interactive, it writes the template using its defaults
without prompting — useful for scripted setup.

Examples:
  olympusc init
  olympusc init fileservice.olympus
  olympusc init fileservice.olympus --non-interactive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.noninteractive, "non-interactive", false, "Write the template using defaults, without prompting")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "schema.olympus"
	if len(args) == 1 {
		path = args[0]
	}

	serviceName := "MyService"
	procName := "ping"

	if !initFlags.noninteractive {
		var err error
		path, err = promptPath(path)
		if err != nil {
			return err
		}

		serviceName, err = prompt.InputRequired(fmt.Sprintf("Service name (emitted as a comment in %s)", path))
		if err != nil {
			if err == prompt.ErrAborted {
				return fmt.Errorf("init aborted")
			}
			return err
		}

		procName, err = prompt.InputIdentifier("First procedure name", procName)
		if err != nil {
			if err == prompt.ErrAborted {
				return fmt.Errorf("init aborted")
			}
			return err
		}

		style, err := prompt.SelectNamingConvention("Naming convention for generated identifiers (not written to the schema; pass --naming-convention to compile)")
		if err != nil {
			if err == prompt.ErrAborted {
				return fmt.Errorf("init aborted")
			}
			return err
		}
		cmd.Printf("using naming convention %q for the compile step\n", style)
	}

	if _, err := os.Stat(path); err == nil {
		ok, err := prompt.ConfirmOverwrite(path)
		if err != nil {
			if err == prompt.ErrAborted {
				return fmt.Errorf("init aborted")
			}
			return err
		}
		if !ok {
			return fmt.Errorf("init aborted: %s exists and was not overwritten", path)
		}
	}

	if err := os.WriteFile(path, []byte(templateSource(serviceName, procName)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func promptPath(defaultPath string) (string, error) {
	path, err := prompt.Input("Schema file path", defaultPath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return defaultPath, nil
	}
	return path, nil
}

func templateSource(serviceName, procName string) string {
	return fmt.Sprintf(`# %s

struct Greeting {
  message -> @string;
}

rpc {
  proc %s() -> Greeting;
}
`, serviceName, procName)
}
