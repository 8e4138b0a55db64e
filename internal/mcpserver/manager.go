// Package mcpserver exposes interview sessions as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/logger"
	"github.com/abhisek/intervio/internal/orchestrator"
	"github.com/abhisek/intervio/internal/session"
)

// ErrUnknownSession is returned for ids the manager has never issued.
var ErrUnknownSession = errors.New("unknown interview session")

// Interviewer is the per-session API driven by the tools.
type Interviewer interface {
	StartSession(ctx context.Context, c session.Context) (string, error)
	ProcessTurn(ctx context.Context, text string) (string, error)
	EndSession(ctx context.Context) (*feedback.Feedback, error)
	Status() orchestrator.Status
}

// Factory builds a fresh Interviewer for each new session.
type Factory func() (Interviewer, error)

type entry struct {
	mu sync.Mutex
	iv Interviewer
}

// Manager holds isolated sessions keyed by id. Calls on one session are
// serialized; different sessions proceed independently.
type Manager struct {
	factory Factory
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a Manager. A nil logger is replaced with a no-op logger.
func NewManager(factory Factory, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		factory:  factory,
		logger:   log,
		sessions: make(map[string]*entry),
	}
}

// Start opens a new session and returns its id and greeting.
func (m *Manager) Start(ctx context.Context, c session.Context) (string, string, error) {
	iv, err := m.factory()
	if err != nil {
		return "", "", fmt.Errorf("create interviewer: %w", err)
	}
	greeting, err := iv.StartSession(ctx, c)
	if err != nil {
		return "", "", err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &entry{iv: iv}
	m.mu.Unlock()

	logger.WithFields(m.logger,
		zap.String(logger.FieldSessionID, id),
		zap.String(logger.FieldParticipant, c.Name),
	).Info("mcp session started")
	return id, greeting, nil
}

func (m *Manager) with(id string, fn func(Interviewer) error) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.iv)
}

// Answer processes one candidate message in session id.
func (m *Manager) Answer(ctx context.Context, id, text string) (string, orchestrator.Status, error) {
	var (
		reply  string
		status orchestrator.Status
	)
	err := m.with(id, func(iv Interviewer) error {
		var err error
		reply, err = iv.ProcessTurn(ctx, text)
		status = iv.Status()
		return err
	})
	return reply, status, err
}

// Status reports the state of session id.
func (m *Manager) Status(id string) (orchestrator.Status, error) {
	var status orchestrator.Status
	err := m.with(id, func(iv Interviewer) error {
		status = iv.Status()
		return nil
	})
	return status, err
}

// End finishes session id and returns its feedback. Ending twice returns
// the same report.
func (m *Manager) End(ctx context.Context, id string) (*feedback.Feedback, error) {
	var fb *feedback.Feedback
	err := m.with(id, func(iv Interviewer) error {
		var err error
		fb, err = iv.EndSession(ctx)
		return err
	})
	if err == nil {
		m.logger.Info("mcp session ended", zap.String(logger.FieldSessionID, id))
	}
	return fb, err
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
