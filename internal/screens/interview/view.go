package interview

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/intervio/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}

	// Two lines for the divider and the input row.
	chatHeight := max(height-3, 0)

	var b strings.Builder
	b.WriteString(s.chat.View(width, chatHeight))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n  ")
	b.WriteString(s.inputLine())
	return b.String()
}

func (s *Screen) inputLine() string {
	if !s.busy {
		return s.input.View()
	}
	label := "Thinking..."
	switch {
	case !s.started:
		label = "Preparing the interview..."
	case s.ending:
		label = "Writing your feedback..."
	}
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(frame) + " " + theme.Hint.Render(label)
}
