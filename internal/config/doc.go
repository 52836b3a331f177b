// SPDX-License-Identifier: MPL-2.0

// Package config handles specter configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from config.cue in the user configuration
// directory ($XDG_CONFIG_HOME/specter on Linux, ~/Library/Application
// Support/specter on macOS, %APPDATA%\specter on Windows), falling back to
// ./config.cue. Files are validated against the embedded config_schema.cue.
// Environment variables prefixed with SPECTER_ override file values
// (SPECTER_DISCOVERY_LOAD_FROM_CWD, SPECTER_UI_OUTPUT, ...);
// SPECTER_BUNDLED and SPECTER_BUNDLE_ROOT set the asset bundle mode.
package config
