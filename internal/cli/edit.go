package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"templater/internal/app"
	"templater/internal/store"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <template-name>",
	Short: "Edit a template's metadata in your editor",
	Long: `Open a template's metadata (name, description, commands) in an
external text editor as YAML, then write the edited values back into
the artifact. The captured file tree is never touched or re-archived.

The editor is resolved from TEMPLATER_EDITOR, the config file, or
EDITOR, and defaults to vim. Renaming the template in the buffer also
renames its artifact file.

Examples:
  templater edit service
  TEMPLATER_EDITOR="code -w" templater edit service`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}

	printVerbose(fmt.Sprintf("Editing metadata with %q", cfg.Editor))

	result, err := app.Edit(cmd.Context(), st, app.EditOptions{
		Name:   args[0],
		Editor: store.Editor{Command: cfg.Editor},
	})
	if err != nil {
		return err
	}

	if result.Renamed {
		printSuccess(fmt.Sprintf("Updated template %q (renamed from %q)", result.Name, args[0]))
	} else {
		printSuccess(fmt.Sprintf("Updated template %q", result.Name))
	}
	return nil
}
