// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cryptoadvance/specter/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const outputFlag = "output"

// addOutputFlag registers --output on cmd.
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(outputFlag, "o", "", "output format: text, json, yaml or toml (default from config ui.output)")
}

// outputFormat returns the --output value, or the configured default when
// the flag was not given.
func outputFormat(cmd *cobra.Command, s *session) (config.OutputFormat, error) {
	format := s.cfg.UI.Output
	if cmd.Flags().Changed(outputFlag) {
		value, err := cmd.Flags().GetString(outputFlag)
		if err != nil {
			return "", err
		}
		format = config.OutputFormat(value)
	}
	if format == "" {
		return config.OutputText, nil
	}
	if valid, errs := format.IsValid(); !valid {
		return "", errs[0]
	}
	return format, nil
}

// writeOutput encodes v in the structured formats and calls text for
// OutputText.
func writeOutput(w io.Writer, format config.OutputFormat, v any, text func(io.Writer) error) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.OutputTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		return text(w)
	}
}
