package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/ui/theme"
)

const arcadeTitleFull = `╔═╗╦╔═╦╦  ╦  ╔═╗╔═╗╦═╗╔═╗╔═╗
╚═╗╠╩╗║║  ║  ╠╣ ║ ║╠╦╝║ ╦║╣ 
╚═╝╩ ╩╩╩═╝╩═╝╚  ╚═╝╩╚═╚═╝╚═╝`

const arcadeTitleCompact = "S · K · I · L · L · F · O · R · G · E"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders XP, path progress and streak in a double-bordered box.
func renderStatsBar(xp, done, total, streak, cw int, compact bool) string {
	xpStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	stepStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	steps := dimStyle.Render("NO PATH YET")
	if total > 0 {
		steps = stepStyle.Render(fmt.Sprintf("▣ %d/%d STEPS", done, total))
	}

	var stats string
	if compact {
		if total > 0 {
			steps = stepStyle.Render(fmt.Sprintf("▣%d/%d", done, total))
		} else {
			steps = dimStyle.Render("▣-")
		}
		stats = fmt.Sprintf("%s %s %s",
			xpStyle.Render(fmt.Sprintf("◆%d", xp)),
			steps,
			streakStyle.Render(fmt.Sprintf("★%d", streak)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			xpStyle.Render(fmt.Sprintf("◆ %d XP", xp)),
			steps,
			streakStyle.Render(fmt.Sprintf("★ %d DAY STREAK", streak)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeYellow).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as plain lines for small
// terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ "+label+" "))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   "+label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderLLMBanner renders a warning when no backend is configured.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to unlock AI features (see skillforge --help)")
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
