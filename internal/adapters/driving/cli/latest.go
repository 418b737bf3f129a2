package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	latestMarkSeen    bool
	latestMarkAllSeen bool
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List documents new since your last visit",
	Long: `Lists documents that appeared since the corpus was last marked seen,
newest first, capped at the 50 most recent. Use --mark-seen to record
the listed documents as seen, or --mark-all-seen to record the whole
corpus, including anything beyond the listing cap.`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

func init() {
	latestCmd.Flags().BoolVar(&latestMarkSeen, "mark-seen", false, "mark the listed documents as seen")
	latestCmd.Flags().BoolVar(&latestMarkAllSeen, "mark-all-seen", false, "mark every document in the corpus as seen")
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	// A fresh cache is served as-is; a stale one is refetched first.
	if err := syncService.Sync(ctx, false); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	state := syncService.State()
	if len(state.NewIDs) == 0 {
		cmd.Println("Nothing new since your last visit.")
	} else {
		cmd.Printf("%d new documents:\n\n", len(state.NewIDs))
		for i, id := range state.NewIDs {
			doc := state.Corpus.ByID(id)
			if doc == nil {
				continue
			}
			cmd.Printf("  [%d] %s\n", i+1, doc.Title)
			cmd.Printf("      %s  %s  %s\n", doc.DisplayType, doc.Date.Format("2006-01-02"), doc.ID)
		}
	}

	// The listing is capped, so marking all can cover more documents
	// than were shown.
	switch {
	case latestMarkAllSeen:
		if err := syncService.MarkAllSeen(ctx); err != nil {
			return fmt.Errorf("marking seen: %w", err)
		}
		cmd.Println("\nMarked all documents as seen.")
	case latestMarkSeen && len(state.NewIDs) > 0:
		if err := syncService.MarkSeen(ctx, state.NewIDs); err != nil {
			return fmt.Errorf("marking seen: %w", err)
		}
		cmd.Printf("\nMarked %d documents as seen.\n", len(state.NewIDs))
	}

	return nil
}
