// Package config defines the YAML configuration for the Stockade runtime.
//
// Loading follows a fixed sequence: read the file, unmarshal, apply
// defaults, apply STOCKADE_* environment overrides, validate. Validation
// failures name the offending field.
package config
