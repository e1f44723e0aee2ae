// Package config loads and validates the vellum configuration file.
//
// Configuration is TOML, resolved from an explicit --config path, then
// ~/.config/vellum/config.toml, then vellum.toml in the working directory.
// A missing file is not an error; defaults apply.
package config
