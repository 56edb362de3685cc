package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"templater/internal/app"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <template-name>",
	Short: "Delete a stored template",
	Long: `Delete a stored template and its artifact file.

Deletion asks for confirmation unless --yes is given.

Examples:
  templater delete service
  templater delete service -y`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

// Delete command flags
var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	name := args[0]

	if !deleteYes {
		confirmed, err := confirmAction(fmt.Sprintf("Delete template %q?", name))
		if err != nil {
			return err
		}
		if !confirmed {
			printInfo("Aborted")
			return nil
		}
	}

	if err := app.Delete(cmd.Context(), st, name); err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Deleted template %q", name))
	return nil
}
