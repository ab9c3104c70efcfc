// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/withtypes/config.cue (~/.config on
// Linux when unset, ~/Library/Application Support/withtypes/config.cue on macOS,
// %APPDATA%\withtypes\config.cue on Windows), falling back to config.cue in the
// project directory. Every key can be overridden with a WITHTYPES_ environment
// variable, e.g. WITHTYPES_TYPES_ENABLED=false or WITHTYPES_PACKAGE_MANAGER_PREFERRED=pnpm.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before
// they are merged; constraints CUE cannot express (glob syntax, shell quoting of
// extra arguments) are checked by Config.IsValid.
package config
