// Package config loads kandilli settings from KANDILLI_* environment variables.
package config
