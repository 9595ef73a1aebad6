package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagscan/internal/search"
)

var queryLimit int

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <terms>...",
	Short: "Search the tag index",
	Long: `Query searches the persisted index with bleve query syntax. Fields:
name, kind, language, filePath.

Examples:
  # Find tags named solve
  tagscan query solve

  # Only Fortran subroutines
  tagscan query 'kind:subroutine language:fortran'
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 20, "maximum number of results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	ix, _, err := setup(nil)
	if err != nil {
		return err
	}

	entries := ix.Store().Load()
	if len(entries) == 0 {
		return fmt.Errorf("index %s is empty, run 'tagscan scan' first", ix.Store().Path())
	}

	searcher, err := search.NewSearcher(entries)
	if err != nil {
		return err
	}
	defer searcher.Close()

	results, err := searcher.Search(ctx, strings.Join(args, " "), queryLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%-12s %-30s %s:%d-%d\n", r.Kind, r.Name, r.FilePath, r.StartLine, r.EndLine)
	}
	return nil
}
