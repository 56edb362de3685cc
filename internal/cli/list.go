package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"templater/internal/app"
	"templater/internal/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Long: `List stored templates with their description, size, creation time,
and last use.

With --name the listing is restricted to one template by exact name,
and --commands / --tree additionally print its recorded commands and
captured file tree. Both require --name.

Examples:
  templater list
  templater list -n service
  templater list -n service -c
  templater list -n service -t`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// List command flags
var (
	listName     string
	listCommands bool
	listTree     bool
)

func init() {
	listCmd.Flags().StringVarP(&listName, "name", "n", "", "Show only the template with this exact name")
	listCmd.Flags().BoolVarP(&listCommands, "commands", "c", false, "Show the template's recorded commands (requires --name)")
	listCmd.Flags().BoolVarP(&listTree, "tree", "t", false, "Show the template's captured file tree (requires --name)")
}

func runList(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}

	result, err := app.List(cmd.Context(), st, app.ListOptions{
		Name:         listName,
		ShowCommands: listCommands,
		ShowTree:     listTree,
	})
	if err != nil {
		return err
	}

	if len(result.Summaries) == 0 {
		printInfo("No templates found")
		return nil
	}

	printSummaryTable(result.Summaries)

	if listCommands {
		printInfo("")
		printInfo("Commands:")
		if len(result.Commands) == 0 {
			printInfo("  (none)")
		}
		for _, command := range result.Commands {
			printInfo("  " + command)
		}
	}

	if listTree {
		printInfo("")
		printInfo("File tree:")
		fmt.Print(result.Tree)
	}
	return nil
}

// printSummaryTable renders template summaries as an aligned table.
func printSummaryTable(summaries []store.Summary) {
	if globalQuiet {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tSIZE\tCREATED\tLAST USED")
	for _, summary := range summaries {
		description := summary.Meta.Description
		if description == "" {
			description = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			summary.Name,
			description,
			formatBytes(summary.Size),
			formatTimestamp(summary.Meta.Created),
			formatTimestamp(summary.Meta.Used),
		)
	}
	w.Flush()
}

// formatTimestamp renders a unix-second timestamp, or "never" for zero.
func formatTimestamp(unix int64) string {
	if unix == 0 {
		return "never"
	}
	return time.Unix(unix, 0).Local().Format("2006-01-02 15:04:05")
}
