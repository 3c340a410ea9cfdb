// Package config loads the epublang TOML configuration.
//
// Defaults live in defaults.go; Load overlays a config file on top of them,
// then normalizes and validates the result. A missing file is not an error.
package config
