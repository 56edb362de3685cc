package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"templater/internal/app"
)

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:   "expand <template-name>",
	Short: "Materialize a template into a new project directory",
	Long: `Expand a stored template into a fresh project directory.

The template expands into <path>/<name> (or <path>/<alias> with --as).
The target must not exist or must be an empty directory; templates
never merge into existing content.

After extraction the template's recorded commands run in order with
the new directory as their working directory. A failing command is
reported but does not stop the remaining commands unless stop_on_error
is set in the config file. Use --no-exec to skip them entirely.

Examples:
  templater expand service
  templater expand service -p ~/work
  templater expand service -a billing-api
  templater expand service -e PORT=8080 -e ENV=dev
  templater expand service -n`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

// Expand command flags
var (
	expandPath   string
	expandAs     string
	expandEnv    []string
	expandNoExec bool
)

func init() {
	expandCmd.Flags().StringVarP(&expandPath, "path", "p", "", "Parent directory for the new project (defaults to the current directory)")
	expandCmd.Flags().StringVarP(&expandAs, "as", "a", "", "Directory name for the new project (defaults to the template name)")
	expandCmd.Flags().StringArrayVarP(&expandEnv, "env", "e", nil, "KEY=VALUE environment override for recorded commands (repeatable)")
	expandCmd.Flags().BoolVarP(&expandNoExec, "no-exec", "n", false, "Skip running recorded commands")
}

func runExpand(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}

	printProgress(fmt.Sprintf("Expanding template %q", args[0]))

	result, err := app.Expand(cmd.Context(), st, app.ExpandOptions{
		Name:        args[0],
		Path:        expandPath,
		As:          expandAs,
		Env:         expandEnv,
		NoExec:      expandNoExec,
		StopOnError: cfg.StopOnError,
	})
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		printWarning(warning)
	}
	for _, command := range result.Commands {
		if command.Err != nil {
			printWarning(fmt.Sprintf("command failed: %s: %v", command.Command, command.Err))
		} else {
			printVerbose(fmt.Sprintf("command succeeded: %s", command.Command))
		}
	}

	if failed := result.FailedCommands(); failed > 0 {
		printWarning(fmt.Sprintf("%d of %d commands failed", failed, len(result.Commands)))
	}
	printSuccess(fmt.Sprintf("Expanded template %q into %s", args[0], result.TargetDir))
	return nil
}
