// Package status provides the status bar for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/keymap"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/styles"
)

// State represents what the application is doing, for display.
type State string

const (
	StateLoading  State = "loading"
	StateIndexing State = "indexing"
	StateReady    State = "ready"
	StateError    State = "error"
)

// Bar displays load/index progress, corpus counts and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	percent  float64
	total    int
	newCount int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateLoading,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages. The bar is passive; state is set
// via the Set methods.
func (b *Bar) Update(tea.Msg) (*Bar, tea.Cmd) {
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := b.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the progress/count side of the bar.
func (b *Bar) renderLeft() string {
	switch b.state {
	case StateLoading:
		return b.styles.Muted.Render(fmt.Sprintf("Loading... %3.0f%%", b.percent))
	case StateIndexing:
		return b.styles.Muted.Render(fmt.Sprintf("Indexing... %3.0f%%", b.percent))
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
		}
		return b.styles.Error.Render("Error")
	case StateReady:
		s := fmt.Sprintf("%d documents", b.total)
		if b.newCount > 0 {
			s += fmt.Sprintf(", %d new", b.newCount)
		}
		return b.styles.Normal.Render(s)
	}
	return b.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, bind := range bindings {
		h := bind.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets an error message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// SetPercent sets the load/index progress percentage.
func (b *Bar) SetPercent(percent float64) {
	b.percent = percent
}

// SetCounts sets the corpus total and new-document count.
func (b *Bar) SetCounts(total, newCount int) {
	b.total = total
	b.newCount = newCount
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
