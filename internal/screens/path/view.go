package path

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

func (s *PathScreen) View(width, height int) string {
	switch s.phase {
	case phaseGenerating:
		return components.Loading(width, s.frame, "Designing your learning path...")
	case phaseFailed:
		return components.ErrorNotice(width, s.errMsg, "Press R to try again.")
	}

	p := s.tracker.Path()
	if p == nil {
		return components.Loading(width, s.frame, "Preparing...")
	}

	listWidth := width / 3
	if listWidth < 28 {
		listWidth = 28
	}
	detailWidth := width - listWidth - 4

	left := s.renderStepList(p, listWidth)
	right := s.renderDetail(detailWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return s.renderSummary(p, width) + "\n\n" + body
}

func (s *PathScreen) renderSummary(p *learning.LearningPath, width int) string {
	done, total := p.Progress()
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + p.Title)
	bar := components.NewProgressBar(
		fmt.Sprintf("%d/%d steps", done, total),
		float64(done)/float64(max(total, 1)),
		true,
		width/2,
	)
	xp := lipgloss.NewStyle().Foreground(theme.Accent).Render(
		fmt.Sprintf("%d / %d XP", p.EarnedXP(), p.TotalXP))

	return title + "\n  " + bar.View() + "   " + xp
}

func (s *PathScreen) renderStepList(p *learning.LearningPath, width int) string {
	var b strings.Builder
	for i, st := range p.Steps {
		icon, color := statusIcon(st.Status)
		line := fmt.Sprintf("%s %d. %s", icon, i+1, st.Title)
		style := lipgloss.NewStyle().Foreground(color).Width(width - 4)
		if i == s.selected {
			style = style.Bold(true).Foreground(theme.ArcadeYellow)
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (s *PathScreen) renderDetail(width int) string {
	st := s.selectedStep()
	if st == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(st.Title))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("   +%d XP", st.Reward())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width - 4).Render(st.Description))
	b.WriteString("\n\n")

	if st.Status == learning.StatusLocked {
		b.WriteString(theme.Hint.Render("Locked. Complete the previous step first."))
	} else {
		if len(st.DetailedSteps) > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("How to"))
			b.WriteString("\n")
			for i, d := range st.DetailedSteps {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, d))
			}
			b.WriteString("\n")
		}
		if len(st.Criteria) > 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Success criteria"))
			b.WriteString("\n")
			for _, c := range st.Criteria {
				b.WriteString("• " + c + "\n")
			}
		}
	}

	switch s.phase {
	case phaseSubmitting:
		b.WriteString("\n" + s.input.View())
	case phaseReviewing:
		b.WriteString("\n" + components.Loading(width-4, s.frame, "Reviewing your work..."))
	}

	if s.review != nil {
		style := theme.Incorrect
		verdict := "Not yet"
		if s.review.Passed {
			style = theme.Correct
			verdict = "Passed"
		}
		b.WriteString("\n" + style.Render(verdict) + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width - 4).Render(s.review.Feedback))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(s.notice))
	}
	if s.errMsg != "" && s.phase != phaseFailed {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func statusIcon(st learning.StepStatus) (string, color.Color) {
	switch st {
	case learning.StatusCompleted:
		return "✓", theme.Success
	case learning.StatusActive:
		return "●", theme.Primary
	case learning.StatusReviewing:
		return "◐", theme.ArcadeCyan
	default:
		return "○", theme.TextDim
	}
}
