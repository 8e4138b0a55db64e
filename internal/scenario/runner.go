package scenario

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/orchestrator"
	"github.com/abhisek/intervio/internal/session"
)

// Interviewer is the session API a scenario is played against.
type Interviewer interface {
	StartSession(ctx context.Context, c session.Context) (string, error)
	ProcessTurn(ctx context.Context, text string) (string, error)
	EndSession(ctx context.Context) (*feedback.Feedback, error)
	Status() orchestrator.Status
	SaveSession(dir string) (session.SavedFiles, error)
}

// Exchange is one candidate line and the interviewer's reply.
type Exchange struct {
	Turn  int    `json:"turn"`
	User  string `json:"user_message"`
	Reply string `json:"agent_response"`
}

// Result is the outcome of a scenario run.
type Result struct {
	Name       string             `json:"scenario_name"`
	Greeting   string             `json:"greeting"`
	Transcript []Exchange         `json:"turns"`
	Feedback   *feedback.Feedback `json:"feedback"`
	Stats      session.Stats      `json:"stats"`
	LogFile    string             `json:"log_file,omitempty"`
}

// Runner plays scenarios.
type Runner struct {
	// LogsDir, when set, receives the session log after each run.
	LogsDir string

	// OnExchange, when set, is called after every reply.
	OnExchange func(Exchange)

	Logger *zap.Logger
}

// Run starts a session for sc, feeds every dialogue line and ends the
// session if the dialogue did not.
func (r *Runner) Run(ctx context.Context, iv Interviewer, sc *Scenario) (*Result, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scenario", sc.Name))

	greeting, err := iv.StartSession(ctx, sc.Context)
	if err != nil {
		return nil, fmt.Errorf("start scenario %q: %w", sc.Name, err)
	}
	res := &Result{Name: sc.Name, Greeting: greeting}

	for i, line := range sc.Dialogue {
		if !iv.Status().Active {
			log.Info("session ended early, skipping remaining lines", zap.Int("remaining", len(sc.Dialogue)-i))
			break
		}
		reply, err := iv.ProcessTurn(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("scenario %q turn %d: %w", sc.Name, i+1, err)
		}
		ex := Exchange{Turn: i + 1, User: line, Reply: reply}
		res.Transcript = append(res.Transcript, ex)
		if r.OnExchange != nil {
			r.OnExchange(ex)
		}
	}

	fb, err := iv.EndSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("end scenario %q: %w", sc.Name, err)
	}
	res.Feedback = fb
	res.Stats = iv.Status().Stats

	if r.LogsDir != "" {
		files, err := iv.SaveSession(r.LogsDir)
		if err != nil {
			return nil, fmt.Errorf("save scenario %q: %w", sc.Name, err)
		}
		res.LogFile = files.Log
	}

	log.Info("scenario finished",
		zap.Int("turns", len(res.Transcript)),
		zap.String("grade", fb.Verdict.Grade))
	return res, nil
}
