package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/intervio/internal/evaluator"
	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/llm"
	"github.com/abhisek/intervio/internal/orchestrator"
	"github.com/abhisek/intervio/internal/planner"
	"github.com/abhisek/intervio/internal/session"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(func() (Interviewer, error) {
		mock := &llm.MockProvider{Fallback: &llm.MockResponse{Content: []byte("What is a goroutine")}}
		gen := llm.NewGenerator(mock, llm.DefaultGeneratorConfig())
		return orchestrator.New(
			evaluator.New(gen, nil),
			planner.New(gen, nil),
			feedback.NewSynthesizer(nil, nil),
			nil,
		), nil
	}, nil)
}

func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
}

func mustBeToolError(t *testing.T, r *mcp.CallToolResult, err error, wantSubstr string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !r.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), wantSubstr) {
		t.Errorf("error %q should contain %q", resultText(r), wantSubstr)
	}
}

func startSession(t *testing.T, m *Manager) string {
	t.Helper()
	r, err := NewStartTool(m).Handle(context.Background(), makeReq(map[string]any{
		"participant_name": "Sam",
		"position":         "Backend Developer",
		"grade":            "Middle",
		"technologies":     "Go, PostgreSQL, ",
	}))
	mustNotError(t, r, err)

	var out map[string]string
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatalf("decode start result: %v", err)
	}
	if out["session_id"] == "" {
		t.Fatal("missing session_id")
	}
	if !strings.Contains(out["message"], "Backend Developer") {
		t.Errorf("greeting should name the position, got %q", out["message"])
	}
	return out["session_id"]
}

func TestToolDefinitions(t *testing.T) {
	m := newTestManager(t)
	tests := []struct {
		tool     mcp.Tool
		name     string
		required []string
	}{
		{NewStartTool(m).Definition(), "start_interview", nil},
		{NewAnswerTool(m).Definition(), "answer", []string{"session_id", "message"}},
		{NewStatusTool(m).Definition(), "interview_status", []string{"session_id"}},
		{NewEndTool(m).Definition(), "end_interview", []string{"session_id"}},
	}
	for _, tt := range tests {
		if tt.tool.Name != tt.name {
			t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.name)
		}
		for _, r := range tt.required {
			if _, ok := tt.tool.InputSchema.Properties[r]; !ok {
				t.Errorf("%s: missing %q parameter", tt.name, r)
			}
		}
		if len(tt.tool.InputSchema.Required) != len(tt.required) {
			t.Errorf("%s: required = %v, want %v", tt.name, tt.tool.InputSchema.Required, tt.required)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Go, ,PostgreSQL ,")
	if len(got) != 2 || got[0] != "Go" || got[1] != "PostgreSQL" {
		t.Fatalf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Fatal("empty input should give nil")
	}
}

func TestInterviewFlow(t *testing.T) {
	m := newTestManager(t)
	id := startSession(t, m)
	ctx := context.Background()

	r, err := NewAnswerTool(m).Handle(ctx, makeReq(map[string]any{
		"session_id": id,
		"message":    "I have three years of Go experience building HTTP services.",
	}))
	mustNotError(t, r, err)

	var ans struct {
		Message string     `json:"message"`
		Status  statusView `json:"status"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &ans); err != nil {
		t.Fatalf("decode answer: %v", err)
	}
	if ans.Message != "What is a goroutine?" {
		t.Errorf("reply = %q", ans.Message)
	}
	if !ans.Status.Active || ans.Status.QuestionsAsked != 2 {
		t.Errorf("unexpected status: %+v", ans.Status)
	}

	r, err = NewStatusTool(m).Handle(ctx, makeReq(map[string]any{"session_id": id}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), `"active": true`) {
		t.Errorf("status should be active: %s", resultText(r))
	}

	r, err = NewEndTool(m).Handle(ctx, makeReq(map[string]any{"session_id": id}))
	mustNotError(t, r, err)
	var fb feedback.Feedback
	if err := json.Unmarshal([]byte(resultText(r)), &fb); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if fb.Verdict.Grade == "" {
		t.Error("feedback should carry a grade")
	}

	status, err := m.Status(id)
	if err != nil {
		t.Fatalf("status after end: %v", err)
	}
	if status.Active {
		t.Error("session should be inactive after end_interview")
	}
}

func TestAnswer_TerminationEndsSession(t *testing.T) {
	m := newTestManager(t)
	id := startSession(t, m)

	r, err := NewAnswerTool(m).Handle(context.Background(), makeReq(map[string]any{
		"session_id": id,
		"message":    "Stop interview, give me feedback.",
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), `"active": false`) {
		t.Errorf("termination should end the session: %s", resultText(r))
	}
}

func TestToolErrors(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	r, err := NewAnswerTool(m).Handle(ctx, makeReq(map[string]any{"message": "hi"}))
	mustBeToolError(t, r, err, "session_id")

	r, err = NewAnswerTool(m).Handle(ctx, makeReq(map[string]any{"session_id": "x", "message": "  "}))
	mustBeToolError(t, r, err, "message")

	r, err = NewStatusTool(m).Handle(ctx, makeReq(map[string]any{"session_id": "nope"}))
	mustBeToolError(t, r, err, "unknown interview session")

	r, err = NewEndTool(m).Handle(ctx, makeReq(map[string]any{"session_id": "nope"}))
	mustBeToolError(t, r, err, "unknown interview session")

	r, err = NewStartTool(m).Handle(ctx, makeReq(map[string]any{"grade": "wizard"}))
	mustBeToolError(t, r, err, "failed to start interview")
	if m.Len() != 0 {
		t.Errorf("failed start should not register a session, have %d", m.Len())
	}
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("no provider")
	m := NewManager(func() (Interviewer, error) { return nil, boom }, nil)
	_, _, err := m.Start(context.Background(), session.Context{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
}

func TestManager_IsolatedSessions(t *testing.T) {
	m := newTestManager(t)
	a := startSession(t, m)
	b := startSession(t, m)
	if a == b {
		t.Fatal("session ids should differ")
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	for _, id := range []string{a, b, a, b} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, _, err := m.Answer(ctx, id, "Channels pass values between goroutines."); err != nil {
				t.Errorf("answer %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if _, err := m.End(ctx, a); err != nil {
		t.Fatalf("end a: %v", err)
	}
	sa, _ := m.Status(a)
	sb, _ := m.Status(b)
	if sa.Active || !sb.Active {
		t.Errorf("ending a must not affect b: a=%v b=%v", sa.Active, sb.Active)
	}
	if sb.QuestionsAsked != 3 {
		t.Errorf("b should have 3 questions, got %d", sb.QuestionsAsked)
	}
}
