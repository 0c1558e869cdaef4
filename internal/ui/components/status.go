package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTickMsg advances a loading spinner.
type SpinnerTickMsg time.Time

// SpinnerTick schedules the next spinner frame.
func SpinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Loading renders a centered spinner line.
func Loading(width int, frame int, text string) string {
	spin := lipgloss.NewStyle().Foreground(theme.Primary).Render(spinnerFrames[frame%len(spinnerFrames)])
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n" + spin + "  " + text)
}

// ErrorNotice renders an error with a recovery hint.
func ErrorNotice(width int, err string, hint string) string {
	body := "Error: " + err
	if hint != "" {
		body += "\n\n" + hint
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\n\n" + body)
}
