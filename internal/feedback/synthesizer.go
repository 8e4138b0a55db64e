package feedback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/session"
)

// PassAccuracy is the per-topic accuracy separating skills from gaps.
const PassAccuracy = 0.6

const (
	maxRoadmapItems     = 5
	maxCandidateExcerpt = 100
	clarityWindow       = 10
)

// defaultCurriculum seeds the roadmap when there are no gaps.
var defaultCurriculum = []string{"Python", "algorithms", "databases", "OOP", "data structures"}

// Synthesizer builds Feedback from a finished session.
type Synthesizer struct {
	explainer Explainer
	logger    *zap.Logger
}

// NewSynthesizer creates a Synthesizer. explainer may be nil, in which case
// gap explanations use templated text.
func NewSynthesizer(explainer Explainer, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{explainer: explainer, logger: logger}
}

// Synthesize never fails. A nil or empty state yields the baseline report.
func (s *Synthesizer) Synthesize(ctx context.Context, st *session.State) *Feedback {
	if st == nil {
		return Baseline()
	}

	fb := &Feedback{
		Verdict:    NewVerdict(st.Stats.Accuracy()),
		SoftSkills: assessSoftSkills(st),
	}
	fb.TechnicalReview = s.review(ctx, st)
	fb.Roadmap = buildRoadmap(fb.TechnicalReview.KnowledgeGaps)

	s.logger.Debug("feedback synthesized",
		zap.String("grade", fb.Verdict.Grade),
		zap.Int("confirmed_skills", len(fb.TechnicalReview.ConfirmedSkills)),
		zap.Int("knowledge_gaps", len(fb.TechnicalReview.KnowledgeGaps)))
	return fb
}

// Baseline is the report for a session with no answered questions.
func Baseline() *Feedback {
	return &Feedback{
		Verdict: NewVerdict(0),
		TechnicalReview: TechnicalReview{
			ConfirmedSkills: []ConfirmedSkill{},
			KnowledgeGaps:   []KnowledgeGap{},
			TopicsCovered:   []string{},
		},
		SoftSkills: SoftSkills{Clarity: RatingMedium, Honesty: RatingHigh, Engagement: RatingLow},
		Roadmap:    buildRoadmap(nil),
	}
}

func (s *Synthesizer) review(ctx context.Context, st *session.State) TechnicalReview {
	tr := TechnicalReview{
		ConfirmedSkills: []ConfirmedSkill{},
		KnowledgeGaps:   []KnowledgeGap{},
		TopicsCovered:   []string{},
	}
	answered := st.AnsweredPairs()

	var weak []string
	for _, name := range st.Topics.Topics() {
		stat := st.Topics.Get(name)
		if stat.Asked || stat.TotalQuestions > 0 {
			tr.TopicsCovered = append(tr.TopicsCovered, name)
		}
		if stat.TotalQuestions == 0 {
			continue
		}

		acc := stat.Accuracy()
		if acc >= PassAccuracy {
			tr.ConfirmedSkills = append(tr.ConfirmedSkills, ConfirmedSkill{
				Topic:           name,
				Accuracy:        int(acc * 100),
				TotalQuestions:  stat.TotalQuestions,
				CorrectAnswers:  stat.CorrectAnswers,
				ExampleQuestion: exampleQuestion(answered, name),
			})
			continue
		}

		weak = append(weak, name)
		if qa := firstWeakPair(answered, name); qa != nil {
			tr.KnowledgeGaps = append(tr.KnowledgeGaps, s.gapFor(ctx, name, qa))
		}
	}

	if len(tr.KnowledgeGaps) == 0 {
		for _, name := range weak {
			tr.KnowledgeGaps = append(tr.KnowledgeGaps, s.generalGap(ctx, name, st.Topics.Get(name).TotalQuestions, st.Topics.Get(name).CorrectAnswers))
		}
	}

	tr.TotalTopicsAsked = len(tr.TopicsCovered)
	return tr
}

func exampleQuestion(pairs []*session.QAPair, topic string) string {
	for _, qa := range pairs {
		if qa.Topic == topic && qa.Quality() >= session.CorrectThreshold {
			return qa.Question
		}
	}
	return fmt.Sprintf("Questions about %s", topic)
}

func firstWeakPair(pairs []*session.QAPair, topic string) *session.QAPair {
	for _, qa := range pairs {
		if qa.Topic == topic && qa.Quality() < session.CorrectThreshold {
			return qa
		}
	}
	return nil
}

func (s *Synthesizer) gapFor(ctx context.Context, topic string, qa *session.QAPair) KnowledgeGap {
	answer := "No answer"
	if qa.Answer != nil && strings.TrimSpace(*qa.Answer) != "" {
		answer = excerpt(*qa.Answer)
	}
	req := ExplainRequest{Topic: topic, Question: qa.Question, CandidateAnswer: answer}
	return KnowledgeGap{
		Topic:           topic,
		Question:        qa.Question,
		CandidateAnswer: answer,
		CorrectAnswer:   s.explain(ctx, req),
		QualityScore:    fmt.Sprintf("%d/10", qa.Quality()),
		SuggestedResources: []string{
			fmt.Sprintf("Documentation on %s", topic),
			fmt.Sprintf("Practice exercises on %s", topic),
			fmt.Sprintf("Course: %s fundamentals", topic),
		},
	}
}

func (s *Synthesizer) generalGap(ctx context.Context, topic string, total, correct int) KnowledgeGap {
	return KnowledgeGap{
		Topic:           topic,
		Question:        fmt.Sprintf("General questions about %s", topic),
		CandidateAnswer: fmt.Sprintf("Correct answers: %d of %d", correct, total),
		CorrectAnswer:   s.explain(ctx, ExplainRequest{Topic: topic}),
		QualityScore:    fmt.Sprintf("%d/10", correct*10/total),
		SuggestedResources: []string{
			fmt.Sprintf("%s basics for beginners", topic),
			fmt.Sprintf("%s workshop", topic),
			fmt.Sprintf("Walkthrough of typical %s tasks", topic),
		},
	}
}

func (s *Synthesizer) explain(ctx context.Context, req ExplainRequest) string {
	if s.explainer == nil {
		return fallbackExplanation(req)
	}
	text, err := s.explainer.Explain(ctx, req)
	if err != nil {
		s.logger.Warn("gap explanation failed, using template", zap.String("topic", req.Topic), zap.Error(err))
		return fallbackExplanation(req)
	}
	return text
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= maxCandidateExcerpt {
		return s
	}
	return string(r[:maxCandidateExcerpt]) + "..."
}

func assessSoftSkills(st *session.State) SoftSkills {
	return SoftSkills{
		Clarity:    assessClarity(st.Dialogue.Last(clarityWindow)),
		Honesty:    assessHonesty(st.Stats.HallucinationsDetected),
		Engagement: assessEngagement(st.Dialogue.Entries()),
	}
}

func assessClarity(entries []session.DialogueEntry) Rating {
	msgs := session.CandidateMessages(entries)
	if len(msgs) == 0 {
		return RatingMedium
	}
	total := 0
	for _, m := range msgs {
		switch words := len(strings.Fields(m)); {
		case words > 50:
			total += 3
		case words > 20:
			total += 2
		default:
			total++
		}
	}
	avg := float64(total) / float64(len(msgs))
	switch {
	case avg >= 2.5:
		return RatingHigh
	case avg >= 1.5:
		return RatingMedium
	default:
		return RatingLow
	}
}

func assessHonesty(hallucinations int) Rating {
	switch {
	case hallucinations > 2:
		return RatingLow
	case hallucinations > 0:
		return RatingMedium
	default:
		return RatingHigh
	}
}

func assessEngagement(entries []session.DialogueEntry) Rating {
	questions := 0
	for _, m := range session.CandidateMessages(entries) {
		if strings.Contains(m, "?") {
			questions++
		}
	}
	switch {
	case questions >= 3:
		return RatingHigh
	case questions >= 1:
		return RatingMedium
	default:
		return RatingLow
	}
}

func buildRoadmap(gaps []KnowledgeGap) []RoadmapItem {
	var items []RoadmapItem
	for i, gap := range gaps {
		if i == maxRoadmapItems {
			break
		}
		items = append(items, RoadmapItem{
			Priority:      gapPriority(gap.Topic),
			Skill:         gap.Topic,
			Action:        fmt.Sprintf("Study the fundamentals of %s", gap.Topic),
			EstimatedTime: "2-3 weeks",
			SpecificTask:  fmt.Sprintf("Solve 5 practice tasks on %s", gap.Topic),
			Resources: []string{
				fmt.Sprintf("Online course on %s", gap.Topic),
				"Documentation and guides",
				"Practice exercises",
			},
		})
	}
	if len(items) > 0 {
		return items
	}

	for i, topic := range defaultCurriculum[:3] {
		priority := "medium"
		if i == 0 {
			priority = "high"
		}
		items = append(items, RoadmapItem{
			Priority:      priority,
			Skill:         topic,
			Action:        fmt.Sprintf("Master the fundamentals of %s", topic),
			EstimatedTime: "3-4 weeks",
			SpecificTask:  fmt.Sprintf("Complete a hands-on course on %s", topic),
			Resources: []string{
				"Free online courses (Coursera, edX)",
				"Practice tasks on LeetCode or HackerRank",
				"Documentation and books on the topic",
			},
		})
	}
	return items
}

func gapPriority(topic string) string {
	lower := strings.ToLower(topic)
	for _, k := range []string{"python", "basic", "fundamental", "database"} {
		if strings.Contains(lower, k) {
			return "high"
		}
	}
	return "medium"
}
