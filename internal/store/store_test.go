package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceIsMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for range 5 {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n <= last {
			t.Fatalf("sequence went from %d to %d", last, n)
		}
		last = n
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "answer-eval", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 50, OutputTokens: 30, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "answer-eval", InputTokens: 10, LatencyMs: 500, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, LLMEventFilter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Model != "gpt-4o" || all[0].Success {
		t.Errorf("expected newest failed event first, got %+v", all[0])
	}
	if all[0].Timestamp.IsZero() {
		t.Error("timestamp not stored")
	}

	evals, err := repo.QueryLLMEvents(ctx, LLMEventFilter{Purpose: "answer-eval", Limit: 1})
	if err != nil {
		t.Fatalf("query filtered: %v", err)
	}
	if len(evals) != 1 || evals[0].Purpose != "answer-eval" {
		t.Fatalf("filtered = %+v", evals)
	}

	got, err := repo.GetLLMEvent(ctx, all[1].Sequence)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Purpose != "question-gen" || got.OutputTokens != 30 {
		t.Errorf("get = %+v", got)
	}

	if _, err := repo.GetLLMEvent(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	eval := byPurpose[0]
	if eval.Key != "answer-eval" || eval.Calls != 2 || eval.InputTokens != 110 || eval.AvgLatencyMs != 400 {
		t.Errorf("answer-eval usage = %+v", eval)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Key != "gpt-4o-mini" || byModel[1].Calls != 2 {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := repo.CreateSession(ctx, SessionRecord{
		ID:          "3f2a9c1e-0000-4000-8000-000000000001",
		Participant: "Ana",
		Position:    "Backend Developer",
		Grade:       "Junior",
		Context:     json.RawMessage(`{"position":"Backend Developer"}`),
		Phase:       "greeting",
		StartedAt:   started,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 1; i <= 2; i++ {
		err := repo.AppendTurn(ctx, TurnRecord{
			SessionID:      "3f2a9c1e-0000-4000-8000-000000000001",
			TurnID:         i,
			VisibleMessage: fmt.Sprintf("question %d", i),
			UserMessage:    fmt.Sprintf("answer %d", i),
		})
		if err != nil {
			t.Fatalf("append turn %d: %v", i, err)
		}
	}

	err = repo.UpdateProgress(ctx, "3f2a9c1e-0000-4000-8000-000000000001", SessionProgress{
		Phase: "technical", TotalQuestions: 2, CorrectAnswers: 1,
		Snapshot: json.RawMessage(`{"format_version":"v1.0.0"}`),
	})
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}

	got, err := repo.GetSession(ctx, "3f2a9c1e")
	if err != nil {
		t.Fatalf("get by prefix: %v", err)
	}
	if got.Phase != "technical" || got.TotalQuestions != 2 || got.CorrectAnswers != 1 {
		t.Errorf("progress not saved: %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("started_at = %v, want %v", got.StartedAt, started)
	}
	if got.Finished() {
		t.Error("session should not be finished yet")
	}

	if err := repo.FinishSession(ctx, got.ID, json.RawMessage(`{"verdict":{}}`), time.Time{}); err != nil {
		t.Fatalf("finish: %v", err)
	}
	got, err = repo.GetSession(ctx, got.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Finished() || string(got.Feedback) != `{"verdict":{}}` {
		t.Errorf("finish not saved: %+v", got)
	}

	turns, err := repo.ListTurns(ctx, got.ID)
	if err != nil {
		t.Fatalf("list turns: %v", err)
	}
	if len(turns) != 2 || turns[0].TurnID != 1 || turns[1].UserMessage != "answer 2" {
		t.Errorf("turns = %+v", turns)
	}

	list, err := repo.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d sessions, want 1", len(list))
	}
}

func TestSessionRepo_Errors(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	if _, err := repo.GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateProgress(ctx, "missing", SessionProgress{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	err := repo.AppendTurn(ctx, TurnRecord{SessionID: "missing", TurnID: 1})
	if err == nil {
		t.Error("expected foreign key violation for unknown session")
	}
	if err := repo.CreateSession(ctx, SessionRecord{}); err == nil {
		t.Error("expected error for empty id")
	}
}
