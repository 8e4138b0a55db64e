package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels recorded on every audit event.
const (
	PurposeAnswerEval    = "answer-eval"
	PurposeQuestionGen   = "question-gen"
	PurposeOffTopicReply = "offtopic-reply"
	PurposeCounterReply  = "counter-reply"
	PurposeFeedback      = "feedback-explain"

	purposeUnknown = "unknown"
)

// WithPurpose labels generation calls made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return purposeUnknown
}
