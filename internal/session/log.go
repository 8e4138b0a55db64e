package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TurnLog is the exported transcript of one interview.
type TurnLog struct {
	ParticipantName string `json:"participant_name"`
	Turns           []Turn `json:"turns"`
	FinalFeedback   any    `json:"final_feedback"`
}

// TurnLog builds the transcript. feedback is embedded as-is.
func (s *State) TurnLog(feedback any) TurnLog {
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return TurnLog{
		ParticipantName: s.Context.Name,
		Turns:           turns,
		FinalFeedback:   feedback,
	}
}

// SavedFiles names the files written by SaveLog.
type SavedFiles struct {
	Log    string
	Memory string
}

// SaveLog writes the transcript and the state snapshot into dir as
// interview_session_<timestamp>.json and ..._memory.json.
func SaveLog(dir string, log TurnLog, snapshot []byte, now time.Time) (SavedFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SavedFiles{}, fmt.Errorf("create log dir: %w", err)
	}

	stamp := now.Format("20060102_150405")
	files := SavedFiles{
		Log:    filepath.Join(dir, fmt.Sprintf("interview_session_%s.json", stamp)),
		Memory: filepath.Join(dir, fmt.Sprintf("interview_session_%s_memory.json", stamp)),
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return SavedFiles{}, fmt.Errorf("encode log: %w", err)
	}
	if err := os.WriteFile(files.Log, data, 0o644); err != nil {
		return SavedFiles{}, fmt.Errorf("write log: %w", err)
	}
	if len(snapshot) > 0 {
		if err := os.WriteFile(files.Memory, snapshot, 0o644); err != nil {
			return SavedFiles{}, fmt.Errorf("write memory: %w", err)
		}
	} else {
		files.Memory = ""
	}
	return files, nil
}
