package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

var openCmd = &cobra.Command{
	Use:   "open [document-id]",
	Short: "Resolve the source PDF for a document",
	Long: `Looks up the published PDF for a document and prints its URL.
The English version is preferred, falling back to Sinhala then Tamil.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	if syncService == nil {
		return errors.New("sync service not configured")
	}
	if pdfResolver == nil {
		return errors.New("pdf resolver not configured")
	}

	ctx := cmd.Context()

	if err := syncService.Sync(ctx, false); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	doc := syncService.State().Corpus.ByID(args[0])
	if doc == nil {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, args[0])
	}

	url, err := pdfResolver.Resolve(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrPDFUnavailable) {
			cmd.Printf("No PDF is published for %s.\n", doc.ID)
			return nil
		}
		return fmt.Errorf("resolving pdf: %w", err)
	}

	cmd.Println(url)
	return nil
}
