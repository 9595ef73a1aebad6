package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagscan/internal/indexer"
)

var watchLangs []string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the tree and keep the index current",
	Long: `Watch performs a full scan and then keeps running, folding file
changes into the index incrementally as they happen. Changes are
debounced, so a burst of saves triggers a single update.

Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVarP(&watchLangs, "langs", "l", nil, "languages to scan (default: all)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ix, log, err := setup(watchLangs)
	if err != nil {
		return err
	}

	stats, err := ix.FullScan(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Initial scan: %d files, %d tags\n", stats.FilesClaimed, stats.TagCount)

	w, err := indexer.NewWatcher(ix, log)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Println("Watching for changes (Ctrl+C to stop)...")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
