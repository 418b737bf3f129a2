package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

// TUIConfig holds extras the TUI command needs beyond the shared services.
type TUIConfig struct {
	Scheduler       driving.Scheduler
	SchedulerConfig domain.SchedulerConfig
}

var tuiConfig *TUIConfig

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The TUI loads the corpus progressively, searches as you type and shows
which documents are new since your last visit.

Controls:
  ↑/ctrl+k, ↓/ctrl+j - Navigate results
  Enter              - Open selected document's PDF URL
  Esc                - Clear query
  ctrl+c             - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps a stack trace visible after the alt screen
	// is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// The TUI is long-running, so the background sync scheduler runs
	// alongside it when enabled.
	if tuiConfig != nil && tuiConfig.SchedulerConfig.Enabled && tuiConfig.Scheduler != nil {
		schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
		defer schedulerCancel()

		go func() {
			if err := tuiConfig.Scheduler.Start(schedulerCtx); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
			}
		}()

		defer func() {
			if err := tuiConfig.Scheduler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "scheduler stop error: %v\n", err)
			}
		}()
	}

	ports := &tui.Ports{
		Search: searchService,
		Sync:   syncService,
		Loader: loaderService,
		PDF:    pdfResolver,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
