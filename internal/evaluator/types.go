package evaluator

import (
	"context"

	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/llm"
)

// Source records which path produced a Result.
type Source string

const (
	SourceFastPath Source = "fast-path" // answer too short to analyze
	SourceGate     Source = "gate"      // rejected by the meaningfulness gate
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback" // generation failed
)

// Canonical recommendations. The planner matches on the words "simplify"
// and "escalate", so keep them in the text.
const (
	RecNotMeaningful   = "simplify the question or ask for a more detailed answer"
	RecHallucination   = "politely point out the inaccuracy and ask a clarifying question on the same topic"
	RecDidNotAnswer    = "simplify the question or move to a more basic topic"
	RecExcellent       = "escalate the next question or move to a more advanced topic"
	RecLowConfidence   = "ask a simpler question to rebuild the candidate's confidence"
	RecContinue        = "continue the interview with the current topic and difficulty"
	suffixBackend      = " with emphasis on practical backend tasks"
	suffixFrontend     = " with focus on interface technologies"
	notMeaningfulNotes = "The answer contains no useful information or is incomplete."
)

// Result is the evaluation of one candidate answer.
type Result struct {
	Quality           int     `json:"quality"`
	Recommendation    string  `json:"recommendation"`
	HasHallucination  bool    `json:"has_hallucination"`
	IsOffTopic        bool    `json:"is_offtopic"`
	IsCounterQuestion bool    `json:"is_counter_question"`
	Confidence        float64 `json:"confidence"`
	Analysis          string  `json:"analysis"`
	Source            Source  `json:"source"`
}

// EvalContext is the interview context passed alongside an answer.
type EvalContext struct {
	Position   string
	Grade      string
	Topic      string
	Difficulty level.Difficulty

	// History is earlier dialogue relevant to the topic, oldest first.
	History []llm.Message
}

// Evaluator scores a candidate answer. Implementations never fail; a
// degraded Result is returned instead.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string, ec EvalContext) Result
}
