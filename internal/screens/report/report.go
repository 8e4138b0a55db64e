// Package report shows the end-of-interview feedback.
package report

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/screen"
	"github.com/abhisek/intervio/internal/ui/components"
	"github.com/abhisek/intervio/internal/ui/layout"
	"github.com/abhisek/intervio/internal/ui/theme"
)

// Screen displays a feedback report. The report may be taller than the
// terminal, so it scrolls.
type Screen struct {
	fb     *feedback.Feedback
	offset int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a report screen.
func New(fb *feedback.Feedback) *Screen {
	return &Screen{fb: fb}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Feedback"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q":
			return s, tea.Quit
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if s.fb == nil {
		return ""
	}
	lines := strings.Split(s.render(width), "\n")
	if height <= 0 {
		return ""
	}
	maxOffset := max(len(lines)-height, 0)
	s.offset = min(s.offset, maxOffset)
	end := min(s.offset+height, len(lines))
	return strings.Join(lines[s.offset:end], "\n")
}

func (s *Screen) render(width int) string {
	fb := s.fb
	v := fb.Verdict
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width-6, 10))
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-4, 60), 0)))

	var b strings.Builder
	section := func(title string) {
		b.WriteString("\n  " + theme.Section.Render(title) + "\n  " + divider + "\n")
	}
	line := func(text string) {
		for _, l := range strings.Split(body.Render(text), "\n") {
			b.WriteString("    " + l + "\n")
		}
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Interview complete"))
	b.WriteString("\n")

	section("Verdict")
	rec := theme.Good
	if v.ConfidenceScore < 60 {
		rec = theme.Weak
	}
	line(fmt.Sprintf("Grade: %s    %s", v.Grade, rec.Render(v.HiringRecommendation)))
	b.WriteString("    " + components.NewProgressBar("Confidence", float64(v.ConfidenceScore)/100, true, min(width-8, 50)).View() + "\n")
	line(v.Summary)

	tr := fb.TechnicalReview
	section(fmt.Sprintf("Technical review (%d topics)", tr.TotalTopicsAsked))
	for _, sk := range tr.ConfirmedSkills {
		line(theme.Good.Render("+ ") + fmt.Sprintf("%s: %d%% (%d/%d)", sk.Topic, sk.Accuracy, sk.CorrectAnswers, sk.TotalQuestions))
	}
	for _, g := range tr.KnowledgeGaps {
		line(theme.Weak.Render("- ") + fmt.Sprintf("%s [%s]", g.Topic, g.QualityScore))
		if g.Question != "" {
			line("  Q: " + g.Question)
		}
		if g.CandidateAnswer != "" {
			line("  A: " + g.CandidateAnswer)
		}
		line("  " + g.CorrectAnswer)
	}
	if len(tr.ConfirmedSkills) == 0 && len(tr.KnowledgeGaps) == 0 {
		line(theme.Hint.Render("No technical answers were assessed."))
	}

	ss := fb.SoftSkills
	section("Soft skills")
	line(fmt.Sprintf("Clarity: %s    Honesty: %s    Engagement: %s", ss.Clarity, ss.Honesty, ss.Engagement))

	section("Roadmap")
	for i, r := range fb.Roadmap {
		line(fmt.Sprintf("%d. [%s] %s (%s)", i+1, r.Priority, r.Action, r.EstimatedTime))
		if r.SpecificTask != "" {
			line("   " + theme.Hint.Render(r.SpecificTask))
		}
	}
	return b.String()
}
