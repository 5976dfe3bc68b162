// Package config loads, normalizes, and validates lecturekit configuration.
//
// It supplies defaults for every pipeline, expands user paths (including tilde
// shortcuts), reads TOML files and honours the OLLAMA_HOST and DATABASE_URL
// environment variables. Commands obtain all settings through this package so
// downstream code receives sanitized paths and clear validation errors.
package config
