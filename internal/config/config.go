// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cryptoadvance/specter/internal/issue"
	"github.com/cryptoadvance/specter/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "specter"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variables that override config values.
	EnvPrefix = "SPECTER"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the specter configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path of the config file in ConfigDir.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a Viper instance with every key defaulted and bound to
// its environment variable.
func newViper() (*viper.Viper, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("discovery.services_package", defaults.Discovery.ServicesPackage)
	v.SetDefault("discovery.migrations_package", defaults.Discovery.MigrationsPackage)
	v.SetDefault("discovery.service_submodule", defaults.Discovery.ServiceSubmodule)
	v.SetDefault("discovery.migrations_dir", defaults.Discovery.MigrationsDir)
	v.SetDefault("discovery.source_marker", defaults.Discovery.SourceMarker)
	v.SetDefault("discovery.source_ext", defaults.Discovery.SourceExt)
	v.SetDefault("discovery.load_from_cwd", defaults.Discovery.LoadFromCwd)
	v.SetDefault("discovery.extra_roots", defaults.Discovery.ExtraRoots)
	v.SetDefault("assets.bundled", defaults.Assets.Bundled)
	v.SetDefault("assets.bundle_root", defaults.Assets.BundleRoot)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.output", defaults.UI.Output)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bundle settings are also read from the short names the packaging
	// scripts set.
	if err := v.BindEnv("assets.bundled", EnvPrefix+"_BUNDLED", EnvPrefix+"_ASSETS_BUNDLED"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("assets.bundle_root", EnvPrefix+"_BUNDLE_ROOT", EnvPrefix+"_ASSETS_BUNDLE_ROOT"); err != nil {
		return nil, err
	}

	return v, nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the config and the file it was read from
// ("" when only defaults and environment apply).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v, err := newViper()
	if err != nil {
		return nil, "", fmt.Errorf("failed to bind environment: %w", err)
	}

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'specter config init' to create a configuration file").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		for _, candidate := range []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			ConfigFileName + "." + ConfigFileExt,
		} {
			if fileExists(candidate) {
				resolvedPath = candidate
				break
			}
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'specter config show' to compare with the defaults").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so the decoded values are
	// validated again.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check SPECTER_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against the #Config schema and
// merges its contents into Viper, keeping defaults and env overrides.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var values map[string]any
	if err := cueutil.Decode(configSchema, data, "#Config", &values,
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	); err != nil {
		return err
	}

	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to the config file
// unless one already exists. It returns the file path.
func CreateDefaultConfig() (string, error) {
	cfgPath, err := ConfigFilePath()
	if err != nil {
		return "", err
	}
	if fileExists(cfgPath) {
		return cfgPath, nil
	}
	if err := writeConfig(cfgPath, DefaultConfig()); err != nil {
		return "", err
	}
	return cfgPath, nil
}

// Save writes cfg to the config file.
func Save(cfg *Config) error {
	cfgPath, err := ConfigFilePath()
	if err != nil {
		return err
	}
	return writeConfig(cfgPath, cfg)
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Specter Configuration File\n")
	sb.WriteString("// Unset fields take their defaults; see 'specter config show'.\n")

	d := cfg.Discovery
	sb.WriteString("\ndiscovery: {\n")
	fmt.Fprintf(&sb, "\tservices_package:   %q\n", d.ServicesPackage)
	fmt.Fprintf(&sb, "\tmigrations_package: %q\n", d.MigrationsPackage)
	fmt.Fprintf(&sb, "\tservice_submodule:  %q\n", d.ServiceSubmodule)
	fmt.Fprintf(&sb, "\tmigrations_dir:     %q\n", d.MigrationsDir)
	fmt.Fprintf(&sb, "\tsource_marker:      %q\n", d.SourceMarker)
	fmt.Fprintf(&sb, "\tsource_ext:         %q\n", d.SourceExt)
	fmt.Fprintf(&sb, "\tload_from_cwd:      %v\n", d.LoadFromCwd)
	if len(d.ExtraRoots) > 0 {
		sb.WriteString("\textra_roots: [\n")
		for _, root := range d.ExtraRoots {
			fmt.Fprintf(&sb, "\t\t%q,\n", root)
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nassets: {\n")
	fmt.Fprintf(&sb, "\tbundled: %v\n", cfg.Assets.Bundled)
	if cfg.Assets.BundleRoot != "" {
		fmt.Fprintf(&sb, "\tbundle_root: %q\n", cfg.Assets.BundleRoot)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\toutput:  %q\n", cfg.UI.Output)
	sb.WriteString("}\n")

	return sb.String()
}
