// Package session holds the state of one interview: turns, question/answer
// pairs, running stats and the topic ledger.
package session

import (
	"errors"
	"time"

	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/topic"
)

// ErrAlreadyAnswered is returned when a QAPair is filled a second time.
var ErrAlreadyAnswered = errors.New("question already answered")

// CorrectThreshold is the minimum quality counted as a correct answer.
const CorrectThreshold = 6

// DefaultMaxHistory bounds the dialogue history.
const DefaultMaxHistory = 50

// Phase is the interview stage. It only moves forward.
type Phase string

const (
	PhaseGreeting  Phase = "greeting"
	PhaseTechnical Phase = "technical"
	PhaseDeepDive  Phase = "deep_dive"
	PhaseClosing   Phase = "closing"
	PhaseEnded     Phase = "ended"
)

var phaseOrder = map[Phase]int{
	PhaseGreeting:  0,
	PhaseTechnical: 1,
	PhaseDeepDive:  2,
	PhaseClosing:   3,
	PhaseEnded:     4,
}

// Before reports whether p comes strictly before other.
func (p Phase) Before(other Phase) bool {
	return phaseOrder[p] < phaseOrder[other]
}

// Turn is one visible exchange plus the notes the roles left for it.
type Turn struct {
	TurnID         int       `json:"turn_id"`
	VisibleMessage string    `json:"agent_visible_message"`
	UserMessage    string    `json:"user_message"`
	InternalNotes  string    `json:"internal_thoughts"`
	Timestamp      time.Time `json:"timestamp"`
}

// QAPair links an asked question to its answer and evaluation.
type QAPair struct {
	QAID       int               `json:"qa_id"`
	Question   string            `json:"question"`
	Answer     *string           `json:"answer"`
	Topic      string            `json:"topic"`
	Difficulty level.Difficulty  `json:"difficulty"`
	Evaluation *evaluator.Result `json:"evaluation"`
	AskedAt    time.Time         `json:"asked_at"`
	AnsweredAt time.Time         `json:"answered_at,omitzero"`
}

// Answered reports whether the pair has been filled.
func (q *QAPair) Answered() bool { return q.Answer != nil }

// Quality returns the evaluated quality, or 0 when unanswered.
func (q *QAPair) Quality() int {
	if q.Evaluation == nil {
		return 0
	}
	return q.Evaluation.Quality
}

// Fill sets the answer and evaluation once.
func (q *QAPair) Fill(answer string, eval evaluator.Result, now time.Time) error {
	if q.Answer != nil {
		return ErrAlreadyAnswered
	}
	a := answer
	e := eval
	q.Answer = &a
	q.Evaluation = &e
	q.AnsweredAt = now
	return nil
}

// Stats are running counters. TotalQuestions always equals
// CorrectAnswers + IncorrectAnswers.
type Stats struct {
	TotalQuestions         int `json:"total_questions"`
	CorrectAnswers         int `json:"correct_answers"`
	IncorrectAnswers       int `json:"incorrect_answers"`
	HallucinationsDetected int `json:"hallucinations_detected"`
}

// Accuracy returns correct/total, or 0.
func (s Stats) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions)
}

// State is the whole interview.
type State struct {
	ParticipantID     string
	Context           Context
	Phase             Phase
	CurrentTopic      string
	CurrentDifficulty level.Difficulty
	Turns             []Turn
	QAPairs           []*QAPair
	Stats             Stats
	Dialogue          *Dialogue
	Topics            *topic.Ledger
	StartedAt         time.Time
}

// NewState creates a session in the greeting phase.
func NewState(participantID string, ctx Context, maxHistory int, now time.Time) *State {
	st := &State{
		ParticipantID:     participantID,
		Context:           ctx,
		Phase:             PhaseGreeting,
		CurrentTopic:      DefaultTopic,
		CurrentDifficulty: level.Junior,
		Dialogue:          NewDialogue(maxHistory),
		Topics:            topic.NewLedger(),
		StartedAt:         now,
	}
	st.Topics.Seed(ctx.Techs()...)
	return st
}

// AppendTurn adds a turn with the next turn id.
func (s *State) AppendTurn(visible, user, notes string, now time.Time) Turn {
	t := Turn{
		TurnID:         len(s.Turns) + 1,
		VisibleMessage: visible,
		UserMessage:    user,
		InternalNotes:  notes,
		Timestamp:      now,
	}
	s.Turns = append(s.Turns, t)
	return t
}

// OpenQuestion records a newly asked question. An empty topic is inferred
// from the question text.
func (s *State) OpenQuestion(question, topicName string, d level.Difficulty, now time.Time) *QAPair {
	if topicName == "" {
		topicName = ExtractTopic(question)
	}
	qa := &QAPair{
		QAID:       len(s.QAPairs) + 1,
		Question:   question,
		Topic:      topicName,
		Difficulty: d,
		AskedAt:    now,
	}
	s.QAPairs = append(s.QAPairs, qa)
	s.Topics.RecordQuestion(topicName, question, d)
	return qa
}

// LastUnanswered returns the most recent open question, or nil.
func (s *State) LastUnanswered() *QAPair {
	for i := len(s.QAPairs) - 1; i >= 0; i-- {
		if !s.QAPairs[i].Answered() {
			return s.QAPairs[i]
		}
	}
	return nil
}

// RecordAnswer fills qa and updates stats and the topic ledger. Nothing is
// counted when qa was already answered.
func (s *State) RecordAnswer(qa *QAPair, answer string, eval evaluator.Result, now time.Time) (bool, error) {
	if err := qa.Fill(answer, eval, now); err != nil {
		return false, err
	}

	correct := eval.Quality >= CorrectThreshold
	s.Stats.TotalQuestions++
	if correct {
		s.Stats.CorrectAnswers++
	} else {
		s.Stats.IncorrectAnswers++
	}
	if eval.HasHallucination {
		s.Stats.HallucinationsDetected++
	}
	s.Topics.RecordAnswer(qa.Topic, correct)
	return correct, nil
}

// AdvancePhase moves to p if p is later than the current phase.
func (s *State) AdvancePhase(p Phase) bool {
	if !s.Phase.Before(p) {
		return false
	}
	s.Phase = p
	return true
}

// Ended reports whether the interview is over.
func (s *State) Ended() bool { return s.Phase == PhaseEnded }

// QuestionCount returns how many questions have been asked.
func (s *State) QuestionCount() int { return len(s.QAPairs) }

// AnsweredPairs returns filled pairs in order.
func (s *State) AnsweredPairs() []*QAPair {
	var out []*QAPair
	for _, qa := range s.QAPairs {
		if qa.Answered() {
			out = append(out, qa)
		}
	}
	return out
}
