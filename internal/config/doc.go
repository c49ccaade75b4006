// Package config loads, normalizes, and validates the mintkeeper deployment
// file.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MINTKEEPER_MNEMONIC_FILE. The Config type centralizes every knob the CLI
// and the supervising daemon need: the mint daemon's launch contract, the
// settings tree rendered to its config file, the secret environment map, and
// the host integration toggles.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log levels, and clear validation errors. The
// mint settings tree itself is validated separately by the mintconfig
// package so all violations can be reported in a single pass.
package config
