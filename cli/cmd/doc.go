// Package cmd implements the strata subcommands.
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the user cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the CLI configuration file.
	ConfigIdentifier = "config"
)
