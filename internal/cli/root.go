package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"templater/internal/config"
	"templater/internal/debug"
	"templater/internal/store"
)

// Version information (set from build-time variables by main)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global flags
var (
	globalNoColor bool
	globalQuiet   bool
	globalDebug   bool
	globalVerbose bool
	globalConfig  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "templater",
	Short: "Project template manager",
	Long: `templater captures a directory tree into a reusable named template and
expands it later into a new project directory.

A template stores the captured files, a description, and an ordered list
of shell commands that run after expansion (e.g. "git init"). Templates
live as single artifact files under the store directory.

Use "templater create <path>" to capture a directory.
Use "templater expand <name>" to materialize it into a new project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetDebug(globalDebug)
		debug.SetNoColor(globalNoColor)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&globalConfig, "config", "", "Path to config file")

	// Add subcommands
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration for this invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(globalConfig)
	if err != nil {
		return nil, err
	}
	debug.DebugValue("[cli] Store directory", cfg.StoreDir)
	return cfg, nil
}

// openStore loads the configuration and opens the template store it names.
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// printError prints an error message to stderr
func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
