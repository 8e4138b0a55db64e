package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

const instructions = `intervio runs adaptive technical interviews.
Call start_interview with the candidate context, relay each candidate message
through answer, and call end_interview (or send "stop interview") to get feedback.`

// New creates the MCP server with every interview tool registered.
func New(m *Manager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"intervio",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	start := NewStartTool(m)
	s.AddTool(start.Definition(), start.Handle)

	answer := NewAnswerTool(m)
	s.AddTool(answer.Definition(), answer.Handle)

	status := NewStatusTool(m)
	s.AddTool(status.Definition(), status.Handle)

	end := NewEndTool(m)
	s.AddTool(end.Definition(), end.Handle)

	return s
}

// ServeStdio serves s over stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
