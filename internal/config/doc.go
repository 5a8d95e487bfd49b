// Package config loads server settings from an optional YAML file and
// EXAM_-prefixed environment variables, applies defaults and validates the
// result before anything is wired.
package config
