package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMEventFilter narrows QueryLLMEvents.
type LLMEventFilter struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact match when set
}

// LLMUsage aggregates calls for one purpose or model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo stores and queries LLM audit events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, f LLMEventFilter) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event or ErrNotFound.
	GetLLMEvent(ctx context.Context, sequence int64) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// SessionRecord is the persisted header of one interview.
type SessionRecord struct {
	ID             string
	Participant    string
	Position       string
	Grade          string
	Context        json.RawMessage
	Phase          string
	TotalQuestions int
	CorrectAnswers int
	StartedAt      time.Time
	EndedAt        time.Time // zero while the interview runs
	Snapshot       json.RawMessage
	Feedback       json.RawMessage
}

// Finished reports whether the interview has ended.
func (r SessionRecord) Finished() bool { return !r.EndedAt.IsZero() }

// TurnRecord is one persisted exchange.
type TurnRecord struct {
	Sequence       int64
	SessionID      string
	TurnID         int
	VisibleMessage string
	UserMessage    string
	InternalNotes  string
	CreatedAt      time.Time
}

// SessionProgress is the mutable part of a session saved after each turn.
type SessionProgress struct {
	Phase          string
	TotalQuestions int
	CorrectAnswers int
	Snapshot       json.RawMessage
}

// SessionRepo stores interview sessions and their turns.
type SessionRepo interface {
	CreateSession(ctx context.Context, rec SessionRecord) error
	AppendTurn(ctx context.Context, rec TurnRecord) error
	UpdateProgress(ctx context.Context, id string, p SessionProgress) error
	FinishSession(ctx context.Context, id string, feedback json.RawMessage, endedAt time.Time) error

	// GetSession resolves id or a unique id prefix.
	GetSession(ctx context.Context, id string) (*SessionRecord, error)

	// ListSessions returns sessions newest first.
	ListSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// ListTurns returns a session's turns in order.
	ListTurns(ctx context.Context, sessionID string) ([]TurnRecord, error)
}
