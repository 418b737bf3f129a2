package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the document corpus",
	Long: `Fetches the published legal-document data, normalises it and updates
the local cache. A cache younger than the refresh interval is reused
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "fetch even when the cache is fresh")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}

	// Progress events arrive on a channel that outlives the sync call,
	// so the drain goroutine is stopped explicitly.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		events := syncService.Events()
		for {
			select {
			case ev := <-events:
				cmd.Printf("\r%-30s %3.0f%%", ev.Stage, ev.Percent)
			case <-stop:
				return
			}
		}
	}()

	err := syncService.Sync(cmd.Context(), syncForce)
	close(stop)
	wg.Wait()
	cmd.Println()

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	state := syncService.State()
	cmd.Printf("Synchronised %d documents", state.TotalCount)
	if state.Source != "" {
		cmd.Printf(" (source: %s)", state.Source)
	}
	cmd.Println()

	if state.Stats.Rejected > 0 {
		cmd.Printf("%d records rejected during normalisation.\n", state.Stats.Rejected)
	}
	if n := len(state.NewIDs); n > 0 {
		cmd.Printf("%d new since your last visit. Run 'gazette latest' to list them.\n", n)
	}
	if state.Provenance != nil && state.Provenance.CommitSHA != "" {
		sha := state.Provenance.CommitSHA
		if len(sha) > 12 {
			sha = sha[:12]
		}
		cmd.Printf("Data generated from commit %s\n", sha)
	}
	return nil
}
