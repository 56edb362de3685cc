package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"templater/internal/app"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Capture a directory into a new template",
	Long: `Capture a directory tree into a reusable named template.

Every file under <path> is recorded, except paths matching an ignore
glob. Recorded commands run in order after a later "templater expand",
with the new project directory as their working directory.

A JSON definition file can pre-fill name, description, commands, and
ignore patterns; explicit flags always take precedence over it.

Examples:
  templater create ./my-service
  templater create ./my-service -n service -d "Go service scaffold"
  templater create ./app -c "git init" -c "go mod tidy"
  templater create ./app -i "**/*.log" -i "node_modules"
  templater create ./app --definition template.json
  templater create ./app -n service -f`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

// Create command flags
var (
	createName        string
	createDescription string
	createCommands    []string
	createIgnore      []string
	createDefinition  string
	createForce       bool
	createAllowEmpty  bool
)

func init() {
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "Template name (defaults to the directory name)")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Template description")
	createCmd.Flags().StringArrayVarP(&createCommands, "command", "c", nil, "Command to run after expansion (repeatable)")
	createCmd.Flags().StringArrayVarP(&createIgnore, "ignore", "i", nil, "Glob pattern to exclude from capture (repeatable)")
	createCmd.Flags().StringVarP(&createDefinition, "definition", "r", "", "JSON definition file pre-filling template fields")
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "Overwrite an existing template with the same name")
	createCmd.Flags().BoolVar(&createAllowEmpty, "allow-empty", false, "Permit a template with zero captured files")
}

func runCreate(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}

	printVerbose(fmt.Sprintf("Capturing directory: %s", args[0]))

	result, err := app.Create(cmd.Context(), st, app.CreateOptions{
		Path:           args[0],
		Name:           createName,
		Description:    createDescription,
		Commands:       createCommands,
		IgnorePatterns: createIgnore,
		DefinitionFile: createDefinition,
		Force:          createForce,
		AllowEmpty:     createAllowEmpty || cfg.AllowEmpty,
	})
	if err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Created template %q (%s)", result.Name, formatBytes(result.Size)))
	printVerbose(fmt.Sprintf("Artifact: %s", result.ArtifactPath))
	return nil
}
