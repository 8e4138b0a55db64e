package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/session"
	"github.com/abhisek/intervio/internal/store"
)

// Recorder persists an interview as it happens.
type Recorder interface {
	RecordStart(ctx context.Context, st *session.State) error
	RecordTurn(ctx context.Context, st *session.State, turn session.Turn) error
	RecordFeedback(ctx context.Context, st *session.State, fb *feedback.Feedback) error
}

// StoreRecorder writes sessions into a store.SessionRepo.
type StoreRecorder struct {
	repo store.SessionRepo
}

// NewStoreRecorder creates a Recorder over repo.
func NewStoreRecorder(repo store.SessionRepo) *StoreRecorder {
	return &StoreRecorder{repo: repo}
}

func (r *StoreRecorder) RecordStart(ctx context.Context, st *session.State) error {
	ctxJSON, err := json.Marshal(st.Context)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	snap, err := st.MarshalSnapshot()
	if err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}
	return r.repo.CreateSession(ctx, store.SessionRecord{
		ID:          st.ParticipantID,
		Participant: st.Context.Name,
		Position:    st.Context.Position,
		Grade:       st.Context.Grade,
		Context:     ctxJSON,
		Phase:       string(st.Phase),
		StartedAt:   st.StartedAt,
		Snapshot:    snap,
	})
}

func (r *StoreRecorder) RecordTurn(ctx context.Context, st *session.State, turn session.Turn) error {
	if err := r.repo.AppendTurn(ctx, store.TurnRecord{
		SessionID:      st.ParticipantID,
		TurnID:         turn.TurnID,
		VisibleMessage: turn.VisibleMessage,
		UserMessage:    turn.UserMessage,
		InternalNotes:  turn.InternalNotes,
		CreatedAt:      turn.Timestamp,
	}); err != nil {
		return err
	}
	return r.saveProgress(ctx, st)
}

func (r *StoreRecorder) RecordFeedback(ctx context.Context, st *session.State, fb *feedback.Feedback) error {
	if err := r.saveProgress(ctx, st); err != nil {
		return err
	}
	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	endedAt := st.StartedAt
	if n := len(st.Turns); n > 0 {
		endedAt = st.Turns[n-1].Timestamp
	}
	return r.repo.FinishSession(ctx, st.ParticipantID, data, endedAt)
}

func (r *StoreRecorder) saveProgress(ctx context.Context, st *session.State) error {
	snap, err := st.MarshalSnapshot()
	if err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}
	return r.repo.UpdateProgress(ctx, st.ParticipantID, store.SessionProgress{
		Phase:          string(st.Phase),
		TotalQuestions: st.Stats.TotalQuestions,
		CorrectAnswers: st.Stats.CorrectAnswers,
		Snapshot:       snap,
	})
}
