package challenge

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	chal "github.com/abhisek/skillforge/internal/challenge"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

func (s *ChallengeScreen) View(width, height int) string {
	if s.phase == phaseGenerating {
		return components.Loading(width, s.frame, "Inventing today's challenge...")
	}

	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, s.renderBrief(cw))

	switch s.phase {
	case phaseReady:
		sections = append(sections, renderTierTable(s.challenge, cw))
	case phaseRunning, phaseSubmitting:
		sections = append(sections, s.renderClock(cw))
		if len(s.hints) > 0 || s.hintPending {
			sections = append(sections, s.renderHints(cw))
		}
		if s.phase == phaseSubmitting {
			sections = append(sections, s.input.View())
		}
	case phaseEvaluating:
		sections = append(sections, s.renderClock(cw))
		sections = append(sections, components.Loading(cw, s.frame, "Judging your submission..."))
	case phaseResult:
		sections = append(sections, s.renderResult(cw))
	}

	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (s *ChallengeScreen) renderBrief(cw int) string {
	c := s.challenge
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(c.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("Theme: " + c.Theme))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).Render(c.Description))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(referenceLabel(c.ReferenceImageURL)))
	return components.ArcadeCard(b.String(), cw)
}

func referenceLabel(url string) string {
	if img, ok := media.ParseDataURL(url); ok {
		return fmt.Sprintf("Reference image ready (%s, %d KB)", img.MIMEType, (len(img.Data)+1023)/1024)
	}
	return "Reference: " + url
}

func renderTierTable(c chal.Challenge, cw int) string {
	row := func(tier chal.Tier, minutes float64) string {
		return lipgloss.NewStyle().Foreground(tierColor(tier)).Bold(true).Width(10).Render(string(tier)) +
			lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("≤ %s", formatDuration(time.Duration(minutes*float64(time.Minute)))))
	}
	table := strings.Join([]string{
		row(chal.TierGold, c.GoldTime),
		row(chal.TierSilver, c.SilverTime),
		row(chal.TierBronze, c.BronzeTime),
	}, "\n")
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(table)
}

func (s *ChallengeScreen) renderClock(cw int) string {
	st := s.status
	clock := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(formatDuration(st.Total))
	tier := lipgloss.NewStyle().Foreground(tierColor(st.Tier)).Bold(true).Render(string(st.Tier))

	line := clock + "   " + tier
	if st.Tier != chal.TierFail {
		line += lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("   %s left", formatDuration(st.TimeToNextTier)))
	}
	if st.Hints > 0 {
		line += lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("\n%d hint(s), +%s penalty", st.Hints, formatDuration(st.Penalty)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(tierColor(st.Tier)).
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(line)
}

func (s *ChallengeScreen) renderHints(cw int) string {
	var b strings.Builder
	for i, h := range s.hints {
		b.WriteString(fmt.Sprintf("💡 %d. %s\n", i+1, h))
	}
	if s.hintPending {
		b.WriteString(theme.Hint.Render("Thinking of a hint..."))
	}
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(cw).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (s *ChallengeScreen) renderResult(cw int) string {
	r := s.result
	if r == nil {
		return ""
	}
	tier := s.final.Tier
	if !r.Passed {
		tier = chal.TierFail
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(tierColor(tier)).Bold(true).Render(medal(tier)))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Match", float64(r.Score)/100, true, cw-8).View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Time %s (%d hint(s))", formatDuration(s.final.Total), s.final.Hints)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).Render(r.Feedback))
	return components.ArcadeCard(b.String(), cw)
}

func medal(t chal.Tier) string {
	switch t {
	case chal.TierGold:
		return "★ GOLD MEDAL ★"
	case chal.TierSilver:
		return "☆ SILVER MEDAL ☆"
	case chal.TierBronze:
		return "✦ BRONZE MEDAL ✦"
	}
	return "No medal this time"
}

func tierColor(t chal.Tier) color.Color {
	switch t {
	case chal.TierGold:
		return theme.Gold
	case chal.TierSilver:
		return theme.Silver
	case chal.TierBronze:
		return theme.Bronze
	}
	return theme.Error
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
