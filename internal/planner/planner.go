// Package planner turns an answer evaluation into the interviewer's next
// message.
package planner

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/llm"
	"github.com/abhisek/intervio/internal/session"
)

// Action is the planner's decision for the next turn.
type Action string

const (
	ActionHandleOffTopic        Action = "handle_offtopic"
	ActionHandleCounterQuestion Action = "handle_counter_question"
	ActionSimplify              Action = "simplify_question"
	ActionEscalate              Action = "escalate_difficulty"
	ActionContinue              Action = "continue_topic"
)

// Plan is the next interviewer message and the topic/difficulty it targets.
// Difficulty is the state's committed difficulty the question was asked at.
type Plan struct {
	Action     Action
	Question   string
	Topic      string
	Difficulty level.Difficulty
	Notes      string
}

// Planner chooses the next message.
type Planner interface {
	PlanNext(ctx context.Context, eval evaluator.Result, st *session.State, candidateMessage string) Plan
}

// TextGenerator is the slice of llm.Generator the planner uses.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string, history []llm.Message) (string, error)
	GenerateWithTemplate(ctx context.Context, tmpl string, vars map[string]any, system string) (string, error)
}

var (
	foundationalTopics = []string{"programming fundamentals", "basic concepts", "foundational knowledge"}
	advancedTopics     = []string{"system architecture", "performance optimization", "scaling"}
)

// DefaultPlanner generates questions through a TextGenerator and falls back
// to canned questions when generation fails.
type DefaultPlanner struct {
	gen    TextGenerator
	logger *zap.Logger
}

// New creates a DefaultPlanner. A nil logger is replaced with a no-op logger.
func New(gen TextGenerator, logger *zap.Logger) *DefaultPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultPlanner{gen: gen, logger: logger}
}

// ChooseAction applies the action priority to an evaluation.
func ChooseAction(eval evaluator.Result) Action {
	rec := strings.ToLower(eval.Recommendation)
	switch {
	case eval.IsOffTopic:
		return ActionHandleOffTopic
	case eval.IsCounterQuestion:
		return ActionHandleCounterQuestion
	case eval.Quality < 4 || strings.Contains(rec, "simplify"):
		return ActionSimplify
	case eval.Quality > 7 && strings.Contains(rec, "escalate"):
		return ActionEscalate
	default:
		return ActionContinue
	}
}

// PlanNext never fails; generation errors degrade to fallback messages.
func (p *DefaultPlanner) PlanNext(ctx context.Context, eval evaluator.Result, st *session.State, candidateMessage string) Plan {
	action := ChooseAction(eval)
	n := st.QuestionCount()

	plan := Plan{
		Action:     action,
		Topic:      st.CurrentTopic,
		Difficulty: st.CurrentDifficulty,
	}

	switch action {
	case ActionHandleOffTopic:
		plan.Question = p.offTopicReply(ctx, st, candidateMessage)
		plan.Notes = "candidate went off topic, steering back"
		return plan
	case ActionHandleCounterQuestion:
		plan.Question = p.counterReply(ctx, st, candidateMessage)
		plan.Notes = "candidate asked a question, answering briefly"
		return plan
	// The orchestrator has already stepped CurrentDifficulty for this answer,
	// so simplify and escalate only change the topic pool.
	case ActionSimplify:
		plan.Topic = pick(foundationalTopics, n)
	case ActionEscalate:
		plan.Topic = pick(advancedTopics, n)
	default:
		if plan.Topic == "" || n > 3 {
			techs := st.Context.Techs()
			plan.Topic = techs[(n/3)%len(techs)]
		}
	}

	question, fallback := p.question(ctx, st, plan.Topic, plan.Difficulty, n)
	plan.Question = question
	plan.Notes = fmt.Sprintf("topic %q at %s difficulty", plan.Topic, plan.Difficulty)
	if fallback {
		plan.Notes += " (fallback question)"
	}
	return plan
}

func pick(pool []string, n int) string {
	if n < len(pool) {
		return pool[n]
	}
	return pool[0]
}

func (p *DefaultPlanner) question(ctx context.Context, st *session.State, topic string, d level.Difficulty, n int) (string, bool) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)
	system := interviewerSystemPrompt(st.Context)
	user := questionPrompt(topic, d, st.PriorQuestions())

	history := st.Dialogue.Messages(llm.HistoryWindow)

	q, err := p.generateQuestion(ctx, system, user, history)
	if err == nil && st.HasBeenAsked(q, session.DuplicateThreshold) {
		p.logger.Debug("generated question is a near-duplicate, retrying", zap.String("question", q))
		q, err = p.generateQuestion(ctx, system, user+fmt.Sprintf(duplicateHint, q), history)
	}
	if err != nil {
		p.logger.Warn("question generation failed, using fallback question",
			zap.String("topic", topic), zap.Error(err))
		return fallbackQuestions[n%len(fallbackQuestions)], true
	}
	return q, false
}

func (p *DefaultPlanner) generateQuestion(ctx context.Context, system, user string, history []llm.Message) (string, error) {
	raw, err := p.gen.Generate(ctx, system, user, history)
	if err != nil {
		return "", err
	}
	q := Normalize(raw)
	if q == "" {
		return "", fmt.Errorf("empty question after normalization")
	}
	return q, nil
}

func (p *DefaultPlanner) offTopicReply(ctx context.Context, st *session.State, message string) string {
	original := "the previous question"
	if qa := st.LastUnanswered(); qa != nil {
		original = qa.Question
	} else if len(st.QAPairs) > 0 {
		original = st.QAPairs[len(st.QAPairs)-1].Question
	}

	vars := map[string]any{
		"original_question": truncateRunes(original, 300),
		"offtopic_response": truncateRunes(message, 200),
		"offtopic_topic":    OffTopicSubject(message),
	}
	reply, err := p.gen.GenerateWithTemplate(llm.WithPurpose(ctx, llm.PurposeOffTopicReply), offTopicTemplate, vars, offTopicSystemPrompt)
	return p.replyOrFallback(reply, err, fmt.Sprintf(offTopicFallback, firstTech(st)), "off-topic")
}

func (p *DefaultPlanner) counterReply(ctx context.Context, st *session.State, message string) string {
	vars := map[string]any{
		"candidate_question": message,
		"context":            fmt.Sprintf("Interview for the %s position", st.Context.Position),
	}
	reply, err := p.gen.GenerateWithTemplate(llm.WithPurpose(ctx, llm.PurposeCounterReply), counterQuestionTemplate, vars, counterSystemPrompt)
	return p.replyOrFallback(reply, err, fmt.Sprintf(counterFallback, firstTech(st)), "counter-question")
}

func (p *DefaultPlanner) replyOrFallback(reply string, err error, fallback, kind string) string {
	reply = cleanReply(reply)
	if err != nil {
		p.logger.Warn("reply generation degraded", zap.String("kind", kind), zap.Error(err))
	}
	if reply == "" {
		return fallback
	}
	return reply
}

func firstTech(st *session.State) string {
	return st.Context.Techs()[0]
}

type subjectKeywords struct {
	subject  string
	keywords []string
}

var offTopicSubjects = []subjectKeywords{
	{"salary", []string{"salary", "pay", "income", "compensation", "зарплат", "оплат", "доход"}},
	{"vacation", []string{"vacation", "holiday", "time off", "отпуск", "каникул"}},
	{"office", []string{"office", "remote", "workplace", "офис", "удаленк", "удалёнк"}},
	{"team", []string{"team", "colleague", "coworker", "команд", "коллектив"}},
	{"schedule", []string{"schedule", "working hours", "график", "расписан"}},
	{"training", []string{"training", "course", "education", "обучен", "курс", "тренинг"}},
}

// OffTopicSubject names what an off-topic message is about.
func OffTopicSubject(message string) string {
	lower := strings.ToLower(message)
	for _, s := range offTopicSubjects {
		for _, k := range s.keywords {
			if strings.Contains(lower, k) {
				return s.subject
			}
		}
	}
	return "this question"
}
