// Package evaluator scores candidate answers and recommends the next step.
package evaluator

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/llm"
)

// MinMeaningfulLength is the rune count below which an answer is scored
// without analysis.
const MinMeaningfulLength = 15

// TextGenerator produces free-form analysis text.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string, history []llm.Message) (string, error)
}

// LLMEvaluator combines pure detectors with a generated analysis.
type LLMEvaluator struct {
	gen       TextGenerator
	detectors []Detector
	logger    *zap.Logger
}

// New creates an evaluator. A nil logger is replaced with a no-op logger.
func New(gen TextGenerator, logger *zap.Logger) *LLMEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMEvaluator{
		gen:       gen,
		detectors: DefaultDetectors(),
		logger:    logger,
	}
}

// Evaluate scores answer against question. It only calls the generation
// service for answers that pass the length and meaningfulness checks.
func (e *LLMEvaluator) Evaluate(ctx context.Context, question, answer string, ec EvalContext) Result {
	flags := RunDetectors(e.detectors, answer)
	res := Result{
		IsOffTopic:        flags[OffTopic{}.Name()],
		IsCounterQuestion: flags[CounterQuestion{}.Name()],
	}

	trimmed := strings.TrimSpace(answer)
	if utf8.RuneCountInString(trimmed) < MinMeaningfulLength {
		return notMeaningful(res, SourceFastPath)
	}
	if flags[Hedge{}.Name()] || !sharesToken(question, trimmed) {
		return notMeaningful(res, SourceGate)
	}

	system, user, err := buildPrompts(question, answer, ec)
	if err == nil {
		var analysis string
		analysis, err = e.gen.Generate(llm.WithPurpose(ctx, llm.PurposeAnswerEval), system, user, ec.History)
		if err == nil {
			return analyzed(res, analysis, ec.Position)
		}
	}

	e.logger.Warn("answer analysis failed, using neutral score", zap.Error(err))
	res.Quality = 5
	res.Confidence = 0.5
	res.Recommendation = RecContinue + roleSuffix(ec.Position)
	res.Analysis = "Analysis unavailable."
	res.Source = SourceFallback
	return res
}

func notMeaningful(res Result, src Source) Result {
	res.Quality = 2
	res.Confidence = 0.3
	res.Recommendation = RecNotMeaningful
	res.Analysis = notMeaningfulNotes
	res.Source = src
	return res
}

func analyzed(res Result, analysis, position string) Result {
	res.Analysis = strings.TrimSpace(analysis)
	res.Quality = ExtractScore(analysis)
	res.HasHallucination = Hallucination{}.Detect(analysis)
	res.Confidence = ExtractConfidence(analysis)
	res.Recommendation = Recommend(analysis, position, res.HasHallucination)
	res.Source = SourceLLM
	return res
}
