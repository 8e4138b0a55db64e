package feedback

import (
	"fmt"
	"strings"
)

// Text renders the report as plain text for terminals and exports.
func (f *Feedback) Text() string {
	var b strings.Builder
	v := f.Verdict

	b.WriteString("VERDICT\n")
	fmt.Fprintf(&b, "  Grade:          %s\n", v.Grade)
	fmt.Fprintf(&b, "  Recommendation: %s\n", v.HiringRecommendation)
	fmt.Fprintf(&b, "  Confidence:     %d%%\n", v.ConfidenceScore)
	fmt.Fprintf(&b, "  %s\n", v.Summary)

	tr := f.TechnicalReview
	fmt.Fprintf(&b, "\nTECHNICAL REVIEW (%d topics)\n", tr.TotalTopicsAsked)
	if len(tr.ConfirmedSkills) > 0 {
		b.WriteString("  Confirmed skills:\n")
		for _, s := range tr.ConfirmedSkills {
			fmt.Fprintf(&b, "    + %s: %d%% (%d/%d)\n", s.Topic, s.Accuracy, s.CorrectAnswers, s.TotalQuestions)
		}
	}
	if len(tr.KnowledgeGaps) > 0 {
		b.WriteString("  Knowledge gaps:\n")
		for _, g := range tr.KnowledgeGaps {
			fmt.Fprintf(&b, "    - %s [%s]\n", g.Topic, g.QualityScore)
			fmt.Fprintf(&b, "      Q: %s\n", g.Question)
			fmt.Fprintf(&b, "      A: %s\n", g.CandidateAnswer)
			fmt.Fprintf(&b, "      Correct: %s\n", indent(g.CorrectAnswer, "        "))
		}
	}

	s := f.SoftSkills
	b.WriteString("\nSOFT SKILLS\n")
	fmt.Fprintf(&b, "  Clarity: %s  Honesty: %s  Engagement: %s\n", s.Clarity, s.Honesty, s.Engagement)

	b.WriteString("\nROADMAP\n")
	for i, r := range f.Roadmap {
		fmt.Fprintf(&b, "  %d. [%s] %s (%s)\n", i+1, r.Priority, r.Action, r.EstimatedTime)
		fmt.Fprintf(&b, "     %s\n", r.SpecificTask)
	}
	return b.String()
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n"+prefix)
}
