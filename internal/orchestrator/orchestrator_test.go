package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/llm"
	"github.com/abhisek/intervio/internal/planner"
	"github.com/abhisek/intervio/internal/session"
)

type stubEvaluator struct {
	results []evaluator.Result
	calls   int
}

func (s *stubEvaluator) Evaluate(_ context.Context, _, _ string, _ evaluator.EvalContext) evaluator.Result {
	s.calls++
	if len(s.results) == 0 {
		return evaluator.Result{Quality: 5, Confidence: 0.5, Recommendation: evaluator.RecContinue}
	}
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r
}

type stubPlanner struct {
	calls int
}

func (p *stubPlanner) PlanNext(_ context.Context, eval evaluator.Result, st *session.State, _ string) planner.Plan {
	p.calls++
	action := planner.ChooseAction(eval)
	topic := "Go"
	if action == planner.ActionHandleOffTopic || action == planner.ActionHandleCounterQuestion {
		topic = st.CurrentTopic
	}
	return planner.Plan{
		Action:     action,
		Question:   fmt.Sprintf("Question number %d?", p.calls),
		Topic:      topic,
		Difficulty: st.CurrentDifficulty,
		Notes:      "stub",
	}
}

type countingSynth struct {
	inner *feedback.Synthesizer
	calls int
}

func (c *countingSynth) Synthesize(ctx context.Context, st *session.State) *feedback.Feedback {
	c.calls++
	return c.inner.Synthesize(ctx, st)
}

type fixture struct {
	orch  *Orchestrator
	eval  *stubEvaluator
	plan  *stubPlanner
	synth *countingSynth
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, results []evaluator.Result, opts ...Option) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{
		eval:  &stubEvaluator{results: results},
		plan:  &stubPlanner{},
		synth: &countingSynth{inner: feedback.NewSynthesizer(nil, nil)},
		logs:  logs,
	}
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	opts = append([]Option{WithConfig(cfg)}, opts...)
	f.orch = New(f.eval, f.plan, f.synth, zap.New(core), opts...)
	return f
}

var testContext = session.Context{
	Name:         "Ana",
	Position:     "Backend Developer",
	Grade:        "Junior",
	Technologies: []string{"Go", "PostgreSQL"},
}

func TestStartSession(t *testing.T) {
	f := newFixture(t, nil)

	greeting, err := f.orch.StartSession(context.Background(), testContext)
	require.NoError(t, err)
	assert.Equal(t, "Hello! My name is Alex. I will conduct the technical interview for the Backend Developer position.\n\n"+
		"Let's begin. Please tell me about your experience with Go.", greeting)

	st := f.orch.State()
	require.Len(t, st.QAPairs, 1)
	assert.Equal(t, greeting, st.QAPairs[0].Question)
	assert.Equal(t, IntroTopic, st.CurrentTopic)
	require.Len(t, st.Turns, 1)
	assert.Equal(t, 1, st.Turns[0].TurnID)
	assert.NotEmpty(t, st.ParticipantID)

	status := f.orch.Status()
	assert.True(t, status.Active)
	assert.Equal(t, session.PhaseGreeting, status.Phase)
	assert.Equal(t, level.Junior, status.Difficulty)

	_, err = f.orch.StartSession(context.Background(), testContext)
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestStartSession_InvalidContext(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.orch.StartSession(context.Background(), session.Context{Technologies: []string{"Go", " "}})
	assert.ErrorIs(t, err, session.ErrInvalidContext)
	assert.Nil(t, f.orch.State())
}

func TestStartSession_Defaults(t *testing.T) {
	f := newFixture(t, nil)
	greeting, err := f.orch.StartSession(context.Background(), session.Context{})
	require.NoError(t, err)
	assert.Contains(t, greeting, "for the developer position")
	assert.Contains(t, greeting, "experience with Python.")
}

func TestProcessTurn_NoSession(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.orch.ProcessTurn(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrSessionNotActive)

	_, err = f.orch.EndSession(context.Background())
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestProcessTurn_EvaluatesThenPlans(t *testing.T) {
	f := newFixture(t, []evaluator.Result{{Quality: 7, Confidence: 0.7, Recommendation: evaluator.RecContinue, Analysis: "solid"}})
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	reply, err := f.orch.ProcessTurn(ctx, "I have built services in Go for three years")
	require.NoError(t, err)
	assert.Equal(t, "Question number 1?", reply)

	st := f.orch.State()
	assert.True(t, st.QAPairs[0].Answered())
	assert.Equal(t, 7, st.QAPairs[0].Quality())
	require.Len(t, st.QAPairs, 2)
	assert.False(t, st.QAPairs[1].Answered())
	assert.Equal(t, "Go", st.QAPairs[1].Topic)
	assert.Equal(t, session.PhaseTechnical, st.Phase)
	assert.Equal(t, 1, st.Stats.CorrectAnswers)

	last := st.Turns[len(st.Turns)-1]
	assert.Equal(t, 2, last.TurnID)
	assert.Equal(t, "I have built services in Go for three years", last.UserMessage)
	assert.Contains(t, last.InternalNotes, "[Evaluator] quality=7/10")
	assert.Contains(t, last.InternalNotes, "[Evaluator → Planner] "+evaluator.RecContinue)
	assert.Contains(t, last.InternalNotes, "[Planner] action=continue_topic")

	entries := st.Dialogue.Entries()
	assert.Equal(t, session.SpeakerCandidate, entries[len(entries)-2].Speaker)
	assert.Equal(t, "Question number 1?", entries[len(entries)-1].Message)
}

func TestProcessTurn_TenExcellentAnswersReachSenior(t *testing.T) {
	excellent := evaluator.Result{Quality: 9, Confidence: 0.9, Recommendation: evaluator.RecExcellent}
	f := newFixture(t, []evaluator.Result{excellent})
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	var seen []level.Difficulty
	for i := range 10 {
		_, err := f.orch.ProcessTurn(ctx, fmt.Sprintf("detailed answer %d about Go internals", i))
		require.NoError(t, err)
		seen = append(seen, f.orch.Status().Difficulty)
	}

	assert.Equal(t, []level.Difficulty{level.Middle, level.Senior}, seen[:2])
	for _, d := range seen[2:] {
		assert.Equal(t, level.Senior, d)
	}

	status := f.orch.Status()
	assert.Equal(t, 10, status.Stats.TotalQuestions)
	assert.Equal(t, 10, status.Stats.CorrectAnswers)
	assert.Equal(t, session.PhaseClosing, status.Phase)
}

func TestProcessTurn_DifficultyMovesOneStep(t *testing.T) {
	qualities := []int{9, 1, 9, 9, 2, 3, 10, 5, 8, 4, 6, 9}
	var results []evaluator.Result
	for _, q := range qualities {
		results = append(results, evaluator.Result{Quality: q})
	}
	f := newFixture(t, results)
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	prev := f.orch.Status().Difficulty
	for range qualities {
		_, err := f.orch.ProcessTurn(ctx, "an answer about goroutines")
		require.NoError(t, err)

		cur := f.orch.Status().Difficulty
		assert.LessOrEqual(t, abs(index(cur)-index(prev)), 1, "difficulty jumped from %s to %s", prev, cur)
		prev = cur

		s := f.orch.Status().Stats
		assert.Equal(t, s.TotalQuestions, s.CorrectAnswers+s.IncorrectAnswers)
	}
}

func index(d level.Difficulty) int {
	for i, l := range level.Ladder {
		if l == d {
			return i
		}
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestProcessTurn_PhaseProgression(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	var phases []session.Phase
	for range 11 {
		_, err := f.orch.ProcessTurn(ctx, "an answer about goroutines")
		require.NoError(t, err)
		phases = append(phases, f.orch.Status().Phase)
	}
	assert.Equal(t, session.PhaseTechnical, phases[0])
	assert.Equal(t, session.PhaseDeepDive, phases[4])
	assert.Equal(t, session.PhaseClosing, phases[9])
	assert.Equal(t, session.PhaseClosing, phases[10])
}

func TestProcessTurn_OffTopicKeepsTopic(t *testing.T) {
	f := newFixture(t, []evaluator.Result{
		{Quality: 6},
		{Quality: 2, IsOffTopic: true},
	})
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	_, err = f.orch.ProcessTurn(ctx, "I write Go")
	require.NoError(t, err)

	f.orch.State().CurrentTopic = "PostgreSQL"
	_, err = f.orch.ProcessTurn(ctx, "What about the salary?")
	require.NoError(t, err)

	st := f.orch.State()
	assert.Equal(t, "PostgreSQL", st.CurrentTopic)
	assert.Contains(t, st.Turns[len(st.Turns)-1].InternalNotes, "action=handle_offtopic")
}

func TestProcessTurn_Termination(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	_, err = f.orch.ProcessTurn(ctx, "I have used Go for years")
	require.NoError(t, err)
	evalCalls := f.eval.calls

	reply, err := f.orch.ProcessTurn(ctx, "stop interview, give feedback")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(reply, "[Interview finished. Generating feedback...]"))

	assert.Equal(t, evalCalls, f.eval.calls, "termination must skip evaluation")
	assert.Equal(t, 1, f.synth.calls)

	st := f.orch.State()
	assert.Equal(t, session.PhaseEnded, st.Phase)
	assert.NotNil(t, st.LastUnanswered(), "outstanding question stays unanswered")
	assert.Equal(t, "termination requested", st.Turns[len(st.Turns)-1].InternalNotes)

	fb1, err := f.orch.EndSession(ctx)
	require.NoError(t, err)
	fb2, err := f.orch.EndSession(ctx)
	require.NoError(t, err)
	assert.Same(t, fb1, fb2)
	assert.Equal(t, 1, f.synth.calls)

	_, err = f.orch.ProcessTurn(ctx, "one more thing")
	assert.ErrorIs(t, err, ErrSessionNotActive)
	assert.False(t, f.orch.Status().Active)

	log := f.orch.TurnLog()
	assert.Equal(t, "Ana", log.ParticipantName)
	assert.Same(t, fb1, log.FinalFeedback)
}

func TestProcessTurn_TerminationBeforeAnyAnswer(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	_, err = f.orch.ProcessTurn(ctx, "Завершить")
	require.NoError(t, err)

	fb := f.orch.Feedback()
	require.NotNil(t, fb)
	assert.Equal(t, "Trainee", fb.Verdict.Grade)
	assert.NotEmpty(t, fb.Roadmap)
	assert.Equal(t, 0, f.eval.calls)
}

func TestStartSession_AfterEnd(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	_, err = f.orch.EndSession(ctx)
	require.NoError(t, err)

	_, err = f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	assert.Nil(t, f.orch.Feedback())
	assert.True(t, f.orch.Status().Active)
}

func TestIsTermination(t *testing.T) {
	for _, msg := range []string{"STOP INTERVIEW", "Can I get feedback?", "давай конец", "Стоп интервью", "Let's finish."} {
		assert.True(t, IsTermination(msg), msg)
	}
	for _, msg := range []string{
		"I like goroutines",
		"what is a channel?",
		"the goroutine finished before the channel was closed",
		"наконец, индекс ускоряет выборку",
		"I get feedbacks from the linter",
	} {
		assert.False(t, IsTermination(msg), msg)
	}
}

type failingRecorder struct {
	starts, turns, feedbacks int
}

func (r *failingRecorder) RecordStart(context.Context, *session.State) error {
	r.starts++
	return errors.New("disk full")
}

func (r *failingRecorder) RecordTurn(context.Context, *session.State, session.Turn) error {
	r.turns++
	return errors.New("disk full")
}

func (r *failingRecorder) RecordFeedback(context.Context, *session.State, *feedback.Feedback) error {
	r.feedbacks++
	return errors.New("disk full")
}

func TestRecorderFailureDoesNotFailTurn(t *testing.T) {
	rec := &failingRecorder{}
	f := newFixture(t, nil, WithRecorder(rec))
	ctx := context.Background()

	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	_, err = f.orch.ProcessTurn(ctx, "I have used Go for years")
	require.NoError(t, err)
	_, err = f.orch.EndSession(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.starts)
	assert.Equal(t, 2, rec.turns)
	assert.Equal(t, 1, rec.feedbacks)
	assert.Equal(t, 2, f.logs.FilterMessage("recording turn failed").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("recording feedback failed").Len())
}

func TestSaveSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.orch.StartSession(ctx, testContext)
	require.NoError(t, err)
	_, err = f.orch.ProcessTurn(ctx, "I have used Go for years")
	require.NoError(t, err)

	files, err := f.orch.SaveSession(t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, files.Log)
	assert.FileExists(t, files.Memory)
}

func TestOrchestrator_WithRealRoles(t *testing.T) {
	mock := &llm.MockProvider{Fallback: &llm.MockResponse{Content: []byte("Can you explain what a slice is")}}
	gen := llm.NewGenerator(mock, llm.DefaultGeneratorConfig())

	orch := New(
		evaluator.New(gen, nil),
		planner.New(gen, nil),
		feedback.NewSynthesizer(nil, nil),
		nil,
	)
	ctx := context.Background()
	_, err := orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	reply, err := orch.ProcessTurn(ctx, "idk")
	require.NoError(t, err)
	assert.Equal(t, "Can you explain what a slice is?", reply)

	// The short answer is scored without a generation call; only the planner calls.
	assert.Equal(t, 1, mock.CallCount())

	qa := orch.State().QAPairs[0]
	assert.Equal(t, 2, qa.Quality())
	assert.Equal(t, evaluator.SourceFastPath, qa.Evaluation.Source)
	assert.Equal(t, planner.ActionSimplify, planner.ChooseAction(*qa.Evaluation))
}

func TestOrchestrator_EscalationAsksAtCommittedDifficulty(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse("ACCURACY: 9/10 excellent and precise answer\nHALLUCINATIONS: no\nCONFIDENCE: 9/10"),
		llm.TextResponse("How would you profile a slow Go service"),
	)
	gen := llm.NewGenerator(mock, llm.DefaultGeneratorConfig())
	orch := New(evaluator.New(gen, nil), planner.New(gen, nil), feedback.NewSynthesizer(nil, nil), nil)

	ctx := context.Background()
	greeting, err := orch.StartSession(ctx, testContext)
	require.NoError(t, err)

	answer := "I have five years of experience with Go building concurrent services."
	_, err = orch.ProcessTurn(ctx, answer)
	require.NoError(t, err)
	require.Equal(t, 2, mock.CallCount())

	st := orch.State()
	assert.Equal(t, level.Middle, st.CurrentDifficulty)
	require.Len(t, st.QAPairs, 2)
	assert.Equal(t, level.Middle, st.QAPairs[1].Difficulty)

	questionCall := mock.Calls[1]
	prompt := questionCall.Messages[len(questionCall.Messages)-1].Content
	assert.Contains(t, prompt, "practical question")
	assert.NotContains(t, prompt, "advanced question")

	// The question prompt carries the dialogue so far.
	require.Len(t, questionCall.Messages, 3)
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: greeting}, questionCall.Messages[0])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: answer}, questionCall.Messages[1])
}
