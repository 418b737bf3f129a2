package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchTypes []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the cached documents",
	Long: `Runs a ranked full-text query over the cached corpus.
The index is built on first use and reused while the corpus is unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVarP(&searchTypes, "type", "t", nil, "restrict to document types (e.g. acts, bills)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	// Hydrate the corpus first. A fresh cache is served without a
	// network fetch.
	if err := syncService.Sync(ctx, false); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	searchService.SetCorpus(syncService.State().Corpus)

	// One-shot invocation: block on the index build rather than serve
	// the unranked fallback.
	if err := searchService.EnsureIndex(ctx, true); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
		Types: searchTypes,
	}

	results, err := searchService.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		doc := &results[i].Document

		title := doc.Title
		if title == "" {
			title = doc.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      %s  %s  %s\n", doc.DisplayType, doc.Date.Format("2006-01-02"), doc.ID)
		cmd.Println()
	}

	return nil
}
