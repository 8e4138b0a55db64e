// Package orchestrator runs an interview: it evaluates each answer, updates
// the session state and asks the planner for the next message.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/logger"
	"github.com/abhisek/intervio/internal/planner"
	"github.com/abhisek/intervio/internal/session"
)

var (
	// ErrSessionActive is returned by StartSession while a session runs.
	ErrSessionActive = errors.New("interview session already active")

	// ErrSessionNotActive is returned when no session is running.
	ErrSessionNotActive = errors.New("no active interview session")
)

const (
	// IntroTopic is the topic of the greeting question.
	IntroTopic = "experience and introduction"

	deepDiveAt = 5
	closingAt  = 10

	// analysisTurns bounds the topic-relevant dialogue sent with an evaluation.
	analysisTurns = 15

	finishedNotice = "\n\n[Interview finished. Generating feedback...]"
)

// TerminationKeywords end the interview when found in a candidate message.
var TerminationKeywords = []string{
	"стоп интервью", "завершить", "фидбэк", "конец",
	"stop interview", "finish", "feedback", "завершите",
}

// IsTermination reports whether message asks to end the interview.
// Keywords match whole words only, so "finished" or "наконец" do not count.
func IsTermination(message string) bool {
	return evaluator.ContainsAnyPhrase(evaluator.Normalize(message), TerminationKeywords)
}

// Synthesizer builds the final report.
type Synthesizer interface {
	Synthesize(ctx context.Context, st *session.State) *feedback.Feedback
}

// Config tunes an Orchestrator.
type Config struct {
	InterviewerName string
	MaxHistory      int

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the standard interview settings.
func DefaultConfig() Config {
	return Config{
		InterviewerName: "Alex",
		MaxHistory:      session.DefaultMaxHistory,
		Now:             time.Now,
	}
}

// Status is a summary of the running session.
type Status struct {
	Active         bool
	Phase          session.Phase
	Topic          string
	Difficulty     level.Difficulty
	Stats          session.Stats
	QuestionsAsked int
}

// Orchestrator drives one interview at a time. It is not safe for
// concurrent use.
type Orchestrator struct {
	cfg       Config
	evaluator evaluator.Evaluator
	planner   planner.Planner
	synth     Synthesizer
	recorder  Recorder

	baseLogger *zap.Logger
	logger     *zap.Logger

	st       *session.State
	feedback *feedback.Feedback
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder persists turns and feedback through r.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) { o.cfg = cfg }
}

// New creates an Orchestrator. A nil logger is replaced with a no-op logger.
func New(ev evaluator.Evaluator, pl planner.Planner, synth Synthesizer, log *zap.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		cfg:        DefaultConfig(),
		evaluator:  ev,
		planner:    pl,
		synth:      synth,
		baseLogger: log,
		logger:     log,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.Now == nil {
		o.cfg.Now = time.Now
	}
	if o.cfg.InterviewerName == "" {
		o.cfg.InterviewerName = DefaultConfig().InterviewerName
	}
	return o
}

func (o *Orchestrator) active() bool {
	return o.st != nil && !o.st.Ended()
}

// StartSession validates c, creates a fresh state and returns the greeting.
func (o *Orchestrator) StartSession(ctx context.Context, c session.Context) (string, error) {
	if o.active() {
		return "", ErrSessionActive
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	c = c.WithDefaults()

	now := o.cfg.Now()
	st := session.NewState(uuid.NewString(), c, o.cfg.MaxHistory, now)
	st.CurrentTopic = IntroTopic

	o.st = st
	o.feedback = nil
	o.logger = logger.WithSession(o.baseLogger, st.ParticipantID, c.Name)

	greeting := fmt.Sprintf("Hello! My name is %s. I will conduct the technical interview for the %s position.\n\n"+
		"Let's begin. Please tell me about your experience with %s.",
		o.cfg.InterviewerName, c.Position, c.Techs()[0])

	st.OpenQuestion(greeting, IntroTopic, st.CurrentDifficulty, now)
	st.Dialogue.Add(session.SpeakerInterviewer, greeting, now)
	turn := st.AppendTurn(greeting, "", "[Planner] action=greeting", now)

	o.logger.Info("interview started",
		zap.String("position", c.Position),
		zap.Strings("technologies", c.Techs()))

	if o.recorder != nil {
		if err := o.recorder.RecordStart(ctx, st); err != nil {
			o.logger.Warn("recording session start failed", zap.Error(err))
		}
	}
	o.record(ctx, turn)
	return greeting, nil
}

// ProcessTurn handles one candidate message and returns the interviewer's
// reply. Generation failures degrade to fallbacks and never fail the turn.
func (o *Orchestrator) ProcessTurn(ctx context.Context, text string) (string, error) {
	if !o.active() {
		return "", ErrSessionNotActive
	}
	st := o.st
	now := o.cfg.Now()

	terminate := IsTermination(text)
	// Analysis context is taken before the answer joins the dialogue; the
	// answer itself goes in the evaluation prompt.
	analysisHistory := session.EntryMessages(st.RelevantTurns(st.CurrentTopic, analysisTurns))
	st.Dialogue.Add(session.SpeakerCandidate, text, now)

	if terminate {
		farewell := fmt.Sprintf("Thank you for your time, %s! That concludes our interview.", st.Context.Name)
		turn := st.AppendTurn(farewell, text, "termination requested", now)
		o.logger.Debug("termination requested", zap.Int(logger.FieldTurnID, turn.TurnID))
		o.record(ctx, turn)
		if _, err := o.EndSession(ctx); err != nil {
			return "", err
		}
		return farewell + finishedNotice, nil
	}

	var notes []string
	eval := evaluator.Result{Quality: 5, Confidence: 0.5, Recommendation: evaluator.RecContinue}

	if qa := st.LastUnanswered(); qa != nil {
		eval = o.evaluator.Evaluate(ctx, qa.Question, text, evaluator.EvalContext{
			Position:   st.Context.Position,
			Grade:      st.Context.Grade,
			Topic:      st.CurrentTopic,
			Difficulty: st.CurrentDifficulty,
			History:    analysisHistory,
		})
		o.logger.Debug("answer evaluated",
			zap.Int(logger.FieldQuality, eval.Quality),
			zap.String("source", string(eval.Source)),
			zap.Bool("offtopic", eval.IsOffTopic),
			zap.Bool("counter_question", eval.IsCounterQuestion))

		correct, err := st.RecordAnswer(qa, text, eval, now)
		if err == nil {
			o.applyAnswer(qa, eval, correct)
		} else {
			o.logger.Warn("answer not recorded", zap.Int("qa_id", qa.QAID), zap.Error(err))
		}
		notes = append(notes,
			fmt.Sprintf("[Evaluator] quality=%d/10 confidence=%.1f: %s", eval.Quality, eval.Confidence, logger.Truncate(eval.Analysis, 200)),
			fmt.Sprintf("[Evaluator → Planner] %s", eval.Recommendation))
	} else {
		notes = append(notes, "[Evaluator] no outstanding question, treating as opening response")
	}

	plan := o.planner.PlanNext(ctx, eval, st, text)
	if keepsTopic := plan.Action == planner.ActionHandleOffTopic || plan.Action == planner.ActionHandleCounterQuestion; !keepsTopic && plan.Topic != "" {
		st.CurrentTopic = plan.Topic
	}
	o.logger.Debug("next message planned",
		zap.String(logger.FieldAction, string(plan.Action)),
		zap.String(logger.FieldTopic, st.CurrentTopic),
		zap.String(logger.FieldDifficulty, string(st.CurrentDifficulty)))

	st.OpenQuestion(plan.Question, st.CurrentTopic, st.CurrentDifficulty, now)
	st.Dialogue.Add(session.SpeakerInterviewer, plan.Question, now)

	notes = append(notes, fmt.Sprintf("[Planner] action=%s: %s", plan.Action, plan.Notes))
	turn := st.AppendTurn(plan.Question, text, strings.Join(notes, "\n"), now)
	o.record(ctx, turn)

	return plan.Question, nil
}

// applyAnswer moves the phase and commits difficulty after a filled answer.
func (o *Orchestrator) applyAnswer(qa *session.QAPair, eval evaluator.Result, correct bool) {
	st := o.st

	st.AdvancePhase(session.PhaseTechnical)
	switch total := st.Stats.TotalQuestions; {
	case total >= closingAt:
		st.AdvancePhase(session.PhaseClosing)
	case total >= deepDiveAt:
		st.AdvancePhase(session.PhaseDeepDive)
	}

	if st.CurrentTopic != "" {
		prev := st.CurrentDifficulty
		switch {
		case eval.Quality >= 8:
			st.CurrentDifficulty = prev.Escalate()
		case eval.Quality <= 4:
			st.CurrentDifficulty = prev.Simplify()
		}
		if st.CurrentDifficulty != prev {
			o.logger.Debug("difficulty changed",
				zap.String("from", string(prev)),
				zap.String(logger.FieldDifficulty, string(st.CurrentDifficulty)))
		}
	}

	st.Topics.AdjustDifficulty(qa.Topic, st.Topics.Get(qa.Topic).Accuracy())

	o.logger.Debug("answer recorded",
		zap.Int("qa_id", qa.QAID),
		zap.String(logger.FieldTopic, qa.Topic),
		zap.Bool("correct", correct),
		zap.String("phase", string(st.Phase)))
}

// EndSession ends the interview and synthesizes feedback exactly once.
// Later calls return the cached report.
func (o *Orchestrator) EndSession(ctx context.Context) (*feedback.Feedback, error) {
	if o.st == nil {
		return nil, ErrSessionNotActive
	}
	if o.feedback != nil {
		return o.feedback, nil
	}

	o.st.AdvancePhase(session.PhaseEnded)
	fb := o.synth.Synthesize(ctx, o.st)
	o.feedback = fb

	o.logger.Info("interview finished",
		zap.Int("questions", o.st.Stats.TotalQuestions),
		zap.Int("correct", o.st.Stats.CorrectAnswers),
		zap.String("grade", fb.Verdict.Grade))

	if o.recorder != nil {
		if err := o.recorder.RecordFeedback(ctx, o.st, fb); err != nil {
			o.logger.Warn("recording feedback failed", zap.Error(err))
		}
	}
	return fb, nil
}

func (o *Orchestrator) record(ctx context.Context, turn session.Turn) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordTurn(ctx, o.st, turn); err != nil {
		o.logger.Warn("recording turn failed", zap.Int(logger.FieldTurnID, turn.TurnID), zap.Error(err))
	}
}

// Status summarizes the current session.
func (o *Orchestrator) Status() Status {
	if o.st == nil {
		return Status{}
	}
	return Status{
		Active:         o.active(),
		Phase:          o.st.Phase,
		Topic:          o.st.CurrentTopic,
		Difficulty:     o.st.CurrentDifficulty,
		Stats:          o.st.Stats,
		QuestionsAsked: o.st.QuestionCount(),
	}
}

// State returns the session state, or nil before StartSession. Callers
// must not mutate it.
func (o *Orchestrator) State() *session.State {
	return o.st
}

// Feedback returns the synthesized report, or nil while the session runs.
func (o *Orchestrator) Feedback() *feedback.Feedback {
	return o.feedback
}

// TurnLog returns the transcript with the final feedback, if any.
func (o *Orchestrator) TurnLog() session.TurnLog {
	if o.st == nil {
		return session.TurnLog{Turns: []session.Turn{}}
	}
	if o.feedback == nil {
		return o.st.TurnLog(nil)
	}
	return o.st.TurnLog(o.feedback)
}

// SaveSession writes the transcript and state snapshot into dir.
func (o *Orchestrator) SaveSession(dir string) (session.SavedFiles, error) {
	if o.st == nil {
		return session.SavedFiles{}, ErrSessionNotActive
	}
	snap, err := o.st.MarshalSnapshot()
	if err != nil {
		return session.SavedFiles{}, fmt.Errorf("snapshot session: %w", err)
	}
	files, err := session.SaveLog(dir, o.TurnLog(), snap, o.cfg.Now())
	if err != nil {
		return session.SavedFiles{}, err
	}
	o.logger.Info("session saved", zap.String("log", files.Log), zap.String("memory", files.Memory))
	return files, nil
}
