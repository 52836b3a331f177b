// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/cryptoadvance/specter/internal/assets"
	"github.com/cryptoadvance/specter/internal/issue"

	"github.com/spf13/cobra"
)

func newAssetsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assets <folder>",
		Short: "Print the directory a static asset folder resolves to",
		Long: `Print the directory a static asset folder (e.g. templates, static)
resolves to.

In a bundled build (assets.bundled or SPECTER_BUNDLED) folders live under
the bundle root; otherwise they are relative to the working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}

			locator := assets.NewLocator(s.cfg.Assets.Bundled, s.cfg.Assets.BundleRoot)
			dir, err := locator.Dir(args[0])
			if err != nil {
				return err
			}

			if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
				_, _ = fmt.Fprintln(app.stderr, WarningStyle.Render("warning: ")+"asset directory does not exist: "+dir)
				if s.verbose {
					app.renderIssue(issue.AssetsNotFoundId)
				}
			}
			_, err = fmt.Fprintln(app.stdout, dir)
			return err
		},
	}
}
