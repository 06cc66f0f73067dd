// Package config loads, validates and normalizes the TOML configuration for
// the corpus pipeline. Every operational constant of the reconciliation and
// labeling policy lives here so deployments can tune thresholds without code
// changes.
package config
