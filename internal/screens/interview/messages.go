package interview

import (
	"time"

	"github.com/abhisek/intervio/internal/feedback"
	"github.com/abhisek/intervio/internal/orchestrator"
)

// startedMsg is sent when the session has been opened.
type startedMsg struct {
	Greeting string
	Status   orchestrator.Status
	Err      error
}

// replyMsg is sent when a turn has been processed.
type replyMsg struct {
	Reply  string
	Status orchestrator.Status
	Err    error
}

// finishedMsg is sent when the final feedback is ready.
type finishedMsg struct {
	Feedback *feedback.Feedback
	Err      error
}

// spinnerTickMsg animates the "thinking" indicator while a turn runs.
type spinnerTickMsg time.Time
