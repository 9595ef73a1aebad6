package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagscan/internal/config"
	"github.com/mvp-joe/tagscan/internal/indexer"
	"github.com/mvp-joe/tagscan/internal/logging"
	"github.com/mvp-joe/tagscan/internal/strategy"
)

var (
	rootDirFlag string
	logLevel    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagscan",
	Short: "tagscan builds a structural tag index of a source tree",
	Long: `tagscan extracts named constructs (functions, classes, interfaces,
type aliases, Fortran program units) from the files of a source tree
and persists them as a queryable JSON index.

Ignore rules follow gitignore semantics, so whatever your version
control skips, the scanner skips too.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDirFlag, "root", "r", "", "root directory to scan (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// resolveRoot returns the absolute scan root from the --root flag or
// the working directory.
func resolveRoot() (string, error) {
	root := rootDirFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	return filepath.Abs(root)
}

// setup loads configuration for the root and builds the logger and the
// indexer shared by every command. langs (from a command flag)
// overrides the configured language list when non-empty.
func setup(langs []string) (*indexer.Indexer, logging.Logger, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(langs) > 0 {
		cfg.Languages = langs
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.New(cfg.Log.Dir, level)

	registry := strategy.NewRegistry(log)
	ix, err := indexer.New(cfg.ToIndexerConfig(root), registry, log)
	if err != nil {
		return nil, nil, err
	}
	return ix, log, nil
}
