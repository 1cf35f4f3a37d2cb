// Package config loads, normalizes, and validates cardbox configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: data/inbox directories, scanner debounce and polling,
// OCR binary settings, extraction thresholds, and notification wiring.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
