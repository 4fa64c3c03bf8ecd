// Package config provides YAML configuration loading for Padsync.
//
// Configuration is loaded in three layers:
//
//  1. Built-in defaults (local simulator endpoint, info-level JSON logging)
//  2. config.yaml values
//  3. PADSYNC_* environment variable overrides
//
// The loaded configuration is validated before use; an invalid configuration
// fails startup rather than producing a partially working process.
package config
