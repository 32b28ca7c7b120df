// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the ctrkit directory under the
// platform's user config directory. The file is validated against the
// embedded #Config schema (config_schema.cue), merged over built-in defaults
// and finally overridden by CTRKIT_* environment variables.
package config
