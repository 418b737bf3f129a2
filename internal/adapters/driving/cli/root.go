// Package cli implements the cobra command tree for the gazette binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	syncService   driving.SyncService
	searchService driving.SearchService
	loaderService driving.ProgressiveLoader
	pdfResolver   driven.PDFResolver
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "gazette",
	Short: "Search Sri Lankan legal documents from the terminal",
	Long: `gazette synchronises the published corpus of Sri Lankan gazettes,
acts, bills, forms and notices to a local cache and searches it offline.

Run 'gazette sync' once to populate the cache, then 'gazette search' or
'gazette tui' to explore it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the core services into the command tree.
// Commands report a configuration error when their service is nil.
func SetServices(
	syncSvc driving.SyncService,
	searchSvc driving.SearchService,
	loader driving.ProgressiveLoader,
	resolver driven.PDFResolver,
) {
	syncService = syncSvc
	searchService = searchSvc
	loaderService = loader
	pdfResolver = resolver
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
