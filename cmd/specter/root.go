// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "specter",
		Short: "Inspect specter plugins and configuration",
		Long: TitleStyle.Render("specter") + SubtitleStyle.Render(" - plugin discovery for the specter wallet") + `

specter finds the services and migrations linked into this build by
scanning their source directories and loading each candidate module
from the module registry.

` + SubtitleStyle.Render("Examples:") + `
  specter discover services           List discovered services
  specter discover migrations -o json List migrations as JSON
  specter discover roots services     Show the directories scanned
  specter modules                     List registered modules
  specter config show                 Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/specter/config.cue)")

	rootCmd.AddCommand(
		newDiscoverCommand(app),
		newModulesCommand(app),
		newAssetsCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
