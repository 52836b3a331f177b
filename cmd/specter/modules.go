// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/cryptoadvance/specter/pkg/registry"

	"github.com/spf13/cobra"
)

type modulesReport struct {
	Modules []registry.ModuleInfo `json:"modules" yaml:"modules" toml:"modules"`
}

func newModulesCommand(app *App) *cobra.Command {
	modulesCmd := &cobra.Command{
		Use:   "modules",
		Short: "List modules declared in the module registry",
		Long: `List every module linked into this build, in name order.

Modules are imported lazily; a module shows as imported once discovery
(or a dependent module) has loaded it in this process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd, s)
			if err != nil {
				return err
			}

			report := modulesReport{Modules: app.Registry.Modules()}
			return writeOutput(app.stdout, format, report, func(w io.Writer) error {
				return writeModulesText(w, report.Modules, s.verbose)
			})
		},
	}
	addOutputFlag(modulesCmd)
	return modulesCmd
}

func writeModulesText(w io.Writer, modules []registry.ModuleInfo, verbose bool) error {
	for _, m := range modules {
		state := SubtitleStyle.Render("defined")
		if m.Imported {
			state = SuccessStyle.Render("imported")
		}
		line := fmt.Sprintf("%s %s %s", nameColumnStyle.Render(m.Name), state, SubtitleStyle.Render(fmt.Sprintf("%d symbols", m.Symbols)))
		if verbose && m.Location != "" {
			line += " " + VerboseStyle.Render(m.Location)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
