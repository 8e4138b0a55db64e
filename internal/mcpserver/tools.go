package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/intervio/internal/orchestrator"
	"github.com/abhisek/intervio/internal/session"
)

// statusView is the JSON shape returned by the status and answer tools.
type statusView struct {
	SessionID      string        `json:"session_id"`
	Active         bool          `json:"active"`
	Phase          string        `json:"phase"`
	Topic          string        `json:"topic"`
	Difficulty     string        `json:"difficulty"`
	QuestionsAsked int           `json:"questions_asked"`
	Stats          session.Stats `json:"stats"`
}

func newStatusView(id string, s orchestrator.Status) statusView {
	return statusView{
		SessionID:      id,
		Active:         s.Active,
		Phase:          string(s.Phase),
		Topic:          s.Topic,
		Difficulty:     s.Difficulty.String(),
		QuestionsAsked: s.QuestionsAsked,
		Stats:          s.Stats,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StartTool handles the start_interview MCP tool.
type StartTool struct {
	m *Manager
}

// NewStartTool creates a StartTool.
func NewStartTool(m *Manager) *StartTool { return &StartTool{m: m} }

// Definition returns the MCP tool definition for start_interview.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("start_interview",
		mcp.WithDescription(
			"Start a new technical interview. Returns the session id and the interviewer's "+
				"greeting. Pass the id to answer, interview_status and end_interview.",
		),
		mcp.WithString("participant_name", mcp.Description("Candidate name")),
		mcp.WithString("position", mcp.Description("Position applied for")),
		mcp.WithString("grade",
			mcp.Description("Target grade: trainee, intern, junior, middle, senior or lead"),
		),
		mcp.WithString("experience", mcp.Description("Free-form experience summary")),
		mcp.WithString("technologies",
			mcp.Description("Comma-separated technologies, e.g. \"Go, PostgreSQL, Docker\""),
		),
	)
}

// Handle processes the start_interview tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := session.Context{
		Name:         req.GetString("participant_name", ""),
		Position:     req.GetString("position", ""),
		Grade:        req.GetString("grade", ""),
		Experience:   req.GetString("experience", ""),
		Technologies: splitList(req.GetString("technologies", "")),
	}
	id, greeting, err := t.m.Start(ctx, c)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start interview: %v", err)), nil
	}
	return jsonResult(map[string]string{"session_id": id, "message": greeting})
}

// AnswerTool handles the answer MCP tool.
type AnswerTool struct {
	m *Manager
}

// NewAnswerTool creates an AnswerTool.
func NewAnswerTool(m *Manager) *AnswerTool { return &AnswerTool{m: m} }

// Definition returns the MCP tool definition for answer.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("answer",
		mcp.WithDescription(
			"Send the candidate's message to a running interview and get the interviewer's reply. "+
				"A message asking to stop the interview ends it and returns the feedback summary.",
		),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Id from start_interview")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Candidate message")),
	)
}

// Handle processes the answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	msg := req.GetString("message", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	if strings.TrimSpace(msg) == "" {
		return mcp.NewToolResultError("'message' is required"), nil
	}

	reply, status, err := t.m.Answer(ctx, id, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to process answer: %v", err)), nil
	}
	return jsonResult(struct {
		Message string     `json:"message"`
		Status  statusView `json:"status"`
	}{reply, newStatusView(id, status)})
}

// StatusTool handles the interview_status MCP tool.
type StatusTool struct {
	m *Manager
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(m *Manager) *StatusTool { return &StatusTool{m: m} }

// Definition returns the MCP tool definition for interview_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("interview_status",
		mcp.WithDescription("Report phase, topic, difficulty and running stats of an interview."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Id from start_interview")),
	)
}

// Handle processes the interview_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	status, err := t.m.Status(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(newStatusView(id, status))
}

// EndTool handles the end_interview MCP tool.
type EndTool struct {
	m *Manager
}

// NewEndTool creates an EndTool.
func NewEndTool(m *Manager) *EndTool { return &EndTool{m: m} }

// Definition returns the MCP tool definition for end_interview.
func (t *EndTool) Definition() mcp.Tool {
	return mcp.NewTool("end_interview",
		mcp.WithDescription(
			"End an interview and return the structured feedback: verdict, technical review, "+
				"soft skills and a learning roadmap.",
		),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Id from start_interview")),
	)
}

// Handle processes the end_interview tool call.
func (t *EndTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	fb, err := t.m.End(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to end interview: %v", err)), nil
	}
	return jsonResult(fb)
}
