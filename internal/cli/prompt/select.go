package prompt

import (
	"github.com/manifoldco/promptui"
)

// SelectString prompts the user to select from a list of strings.
// Returns the selected string.
func SelectString(label string, items []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}

	_, result, err := prompt.Run()
	return result, wrapError(err)
}

// namingConventions are the identifier styles internal/naming supports,
// in the order olympusc init and --naming-convention flags accept them.
var namingConventions = []string{"pascal", "lower-camel", "snake", "shouty-snake", "kebab", "shouty-kebab"}

// SelectNamingConvention prompts the user to choose one of Olympus's
// identifier naming conventions, returning the string accepted by
// pkg/config.CodegenConfig and --naming-convention flags.
func SelectNamingConvention(label string) (string, error) {
	return SelectString(label, namingConventions)
}
