package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	scanLangs []string
	quietFlag bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the tree and rebuild the tag index",
	Long: `Scan walks the root directory, extracts tags from every recognized
file and replaces the persisted index wholesale.

Files matched by ignore rules are never visited; files no strategy
recognizes are left out of the index.

Examples:
  # Scan the current directory with all languages
  tagscan scan

  # Scan only Fortran sources
  tagscan scan --langs fortran

  # Scan another tree without progress output
  tagscan scan --root /path/to/project --quiet
`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringSliceVarP(&scanLangs, "langs", "l", nil, "languages to scan (default: all)")
	scanCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ix, _, err := setup(scanLangs)
	if err != nil {
		return err
	}
	ix.SetProgress(NewCLIProgressReporter(quietFlag))

	stats, err := ix.FullScan(ctx)
	if err != nil {
		return err
	}

	if !quietFlag {
		fmt.Printf("✓ Indexed %d of %d files, %d tags (%.1fs)\n",
			stats.FilesClaimed, stats.FilesWalked, stats.TagCount, stats.Elapsed.Seconds())
		fmt.Printf("  Index: %s\n", ix.Store().Path())
	}
	return nil
}

// signalContext returns a context cancelled by Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping...")
		cancel()
	}()

	return ctx, cancel
}
