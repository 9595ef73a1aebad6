package config

import (
	"github.com/mvp-joe/tagscan/internal/indexer"
)

// Config is the user-facing configuration, read from
// .tagscan/config.yml under the scan root.
type Config struct {
	// Languages restricts scanning to these strategy identifiers.
	// Empty (the default) activates every registered strategy.
	Languages []string `mapstructure:"languages"`

	Paths PathsConfig `mapstructure:"paths"`

	// IgnoreFiles are the ignore rule files consulted, in order,
	// relative to the root.
	IgnoreFiles []string `mapstructure:"ignore_files"`

	// IndexFile is where the index is persisted, relative to the root
	// unless absolute.
	IndexFile string `mapstructure:"index_file"`

	Log LogConfig `mapstructure:"log"`
}

// PathsConfig tunes which files the walk considers.
type PathsConfig struct {
	// Include narrows the walk to files matching at least one glob.
	// Empty means every candidate file.
	Include []string `mapstructure:"include"`

	// Ignore holds extra ignore patterns appended after the rule
	// files, so they win on conflicts.
	Ignore []string `mapstructure:"ignore"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// Dir enables an additional rotated log file when non-empty.
	Dir string `mapstructure:"dir"`
}

// ToIndexerConfig converts the user configuration into the indexer's
// runtime configuration for the given root.
func (c *Config) ToIndexerConfig(rootDir string) *indexer.Config {
	return &indexer.Config{
		RootDir:         rootDir,
		Languages:       c.Languages,
		IgnoreFiles:     c.IgnoreFiles,
		IgnorePatterns:  c.Paths.Ignore,
		IncludePatterns: c.Paths.Include,
		IndexFile:       c.IndexFile,
	}
}
