// Package cli implements the command-line interface for kandilli.
//
// The cli package provides the Cobra-based CLI with two commands: latest,
// which fetches the KOERI bulletin once and prints events as text or JSON
// (with optional filtering and sorting), and serve, which runs the HTTP API.
// It coordinates the config, scraper, filter and api packages.
package cli
