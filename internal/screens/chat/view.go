package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillforge/internal/chat"
	"github.com/abhisek/skillforge/internal/media"
	"github.com/abhisek/skillforge/internal/ui/components"
	"github.com/abhisek/skillforge/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	bodyWidth := width - 4

	var footer []string
	if s.attachName != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("📎 "+s.attachName))
	}
	if s.errMsg != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	footer = append(footer, s.input.View())
	bottom := strings.Join(footer, "\n")

	avail := height - lipgloss.Height(bottom) - 1
	transcript := s.renderTranscript(bodyWidth)
	if s.busy {
		transcript += "\n" + components.Loading(bodyWidth, s.frame, "")
	}
	transcript = lastLines(transcript, avail)

	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(transcript + "\n" + bottom)
}

func (s *ChatScreen) renderTranscript(width int) string {
	msgs := s.session.Messages()
	if len(msgs) == 0 {
		return theme.Hint.Render("Ask anything about your tool or the current module.")
	}

	var blocks []string
	for _, m := range msgs {
		blocks = append(blocks, renderMessage(m, width))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(m chat.Message, width int) string {
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Mentor")
	if m.Role == chat.RoleUser {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("You")
	}
	stamp := lipgloss.NewStyle().Foreground(theme.TextDim).Render(m.Timestamp.Format("15:04"))

	var b strings.Builder
	b.WriteString(label + " " + stamp + "\n")
	if m.Text != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(m.Text))
	}
	if m.ImageURL != "" {
		if m.Text != "" {
			b.WriteString("\n")
		}
		b.WriteString(theme.Hint.Render(imageLabel(m.ImageURL)))
	}
	return b.String()
}

func imageLabel(url string) string {
	img, ok := media.ParseDataURL(url)
	if !ok {
		return "[image]"
	}
	return fmt.Sprintf("[image: %s, %d KB]", img.MIMEType, (len(img.Data)+1023)/1024)
}

func lastLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
