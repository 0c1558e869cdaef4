// Package placeholder shows a notice in place of a screen whose AI
// backend is not configured.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/screen"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

const notice = "╌╌ AI backend not configured ╌╌\n\n" +
	"Set GEMINI_API_KEY (or SKILLFORGE_LLM_PROVIDER\n" +
	"with its API key) and restart SkillForge."

// PlaceholderScreen stands in for an unavailable screen.
type PlaceholderScreen struct {
	title string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a PlaceholderScreen with the given title.
func New(title string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Accent).
		Render(notice)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
