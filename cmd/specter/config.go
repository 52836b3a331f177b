// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cryptoadvance/specter/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `specter config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage specter configuration",
		Long: `Manage specter configuration.

Configuration is stored in:
  - Linux: ~/.config/specter/config.cue
  - macOS: ~/Library/Application Support/specter/config.cue
  - Windows: %APPDATA%\specter\config.cue

Every key can be overridden with a SPECTER_ environment variable, e.g.
SPECTER_DISCOVERY_LOAD_FROM_CWD=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, s)
			if err != nil {
				return err
			}
			app.Diagnostics.Render(cmd.Context(), s.diags, s.verbose, app.stderr)
			return writeOutput(app.stdout, format, s.cfg, func(w io.Writer) error {
				return writeConfigText(w, s)
			})
		},
	}
	addOutputFlag(showCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return initConfig(app.stdout, force)
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")

	cfgCmd.AddCommand(
		showCmd,
		initCmd,
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfgPath, err := config.ConfigFilePath()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(app.stdout, cfgPath)
				return err
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Output effective configuration as CUE",
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.newSession(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
				return err
			},
		},
	)

	return cfgCmd
}

func writeConfigText(w io.Writer, s *session) error {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	source := SubtitleStyle.Render("(using defaults)")
	if s.path != "" {
		source = s.path
	}

	d := s.cfg.Discovery
	lines := []string{
		TitleStyle.Render("Current Configuration"),
		"",
		fmt.Sprintf("%s: %s", keyStyle.Render("Config file"), source),
		"",
		keyStyle.Render("discovery") + ":",
		fmt.Sprintf("  services_package: %s", valueStyle.Render(d.ServicesPackage.String())),
		fmt.Sprintf("  migrations_package: %s", valueStyle.Render(d.MigrationsPackage.String())),
		fmt.Sprintf("  service_submodule: %s", valueStyle.Render(d.ServiceSubmodule.String())),
		fmt.Sprintf("  migrations_dir: %s", valueStyle.Render(d.MigrationsDir)),
		fmt.Sprintf("  source_marker: %s", valueStyle.Render(d.SourceMarker)),
		fmt.Sprintf("  source_ext: %s", valueStyle.Render(string(d.SourceExt))),
		fmt.Sprintf("  load_from_cwd: %s", valueStyle.Render(fmt.Sprintf("%v", d.LoadFromCwd))),
	}
	if len(d.ExtraRoots) == 0 {
		lines = append(lines, fmt.Sprintf("  extra_roots: %s", SubtitleStyle.Render("(none configured)")))
	} else {
		lines = append(lines, "  extra_roots:")
		for _, root := range d.ExtraRoots {
			lines = append(lines, "    - "+valueStyle.Render(root.String()))
		}
	}
	lines = append(lines,
		"",
		keyStyle.Render("assets")+":",
		fmt.Sprintf("  bundled: %s", valueStyle.Render(fmt.Sprintf("%v", s.cfg.Assets.Bundled))),
		fmt.Sprintf("  bundle_root: %s", valueStyle.Render(s.cfg.Assets.BundleRoot)),
		"",
		keyStyle.Render("ui")+":",
		fmt.Sprintf("  verbose: %s", valueStyle.Render(fmt.Sprintf("%v", s.cfg.UI.Verbose))),
		fmt.Sprintf("  output: %s", valueStyle.Render(s.cfg.UI.Output.String())),
	)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func initConfig(w io.Writer, force bool) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(cfgPath); statErr == nil {
		if !force {
			_, err = fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("Config file already exists:"), cfgPath)
			return err
		}
		if err := config.Save(config.DefaultConfig()); err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Overwrote config file:"), cfgPath)
		return err
	}

	created, err := config.CreateDefaultConfig()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Created config file:"), created)
	return err
}
