package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/intervio/internal/ui/theme"
)

// Speaker identifies who wrote a transcript line.
type Speaker int

const (
	SpeakerInterviewer Speaker = iota
	SpeakerCandidate
	SpeakerSystem
)

// Message is one entry of the chat transcript.
type Message struct {
	Speaker Speaker
	Name    string
	Text    string
}

// Transcript renders chat messages bottom-aligned into a fixed height.
type Transcript struct {
	Messages []Message
}

// Add appends a message.
func (t *Transcript) Add(m Message) {
	t.Messages = append(t.Messages, m)
}

// Len returns the number of messages.
func (t Transcript) Len() int { return len(t.Messages) }

// View renders the newest messages that fit into width x height.
func (t Transcript) View(width, height int) string {
	if height <= 0 {
		return ""
	}
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width-4, 10))

	var lines []string
	for i, m := range t.Messages {
		if i > 0 {
			lines = append(lines, "")
		}
		label := m.Name
		switch m.Speaker {
		case SpeakerInterviewer:
			label = theme.Interviewer.Render(label)
		case SpeakerCandidate:
			label = theme.Candidate.Render(label)
		default:
			label = theme.Hint.Render(label)
		}
		lines = append(lines, "  "+label)
		for _, l := range strings.Split(body.Render(m.Text), "\n") {
			lines = append(lines, "  "+l)
		}
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}
