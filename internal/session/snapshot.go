package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/topic"
)

// SnapshotVersion is the format written by MarshalSnapshot. Readers accept
// any version with the same major.
const SnapshotVersion = "v1.0.0"

// ErrSnapshotVersion is returned for snapshots of an incompatible format.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

type snapshotData struct {
	FormatVersion     string           `json:"format_version"`
	ParticipantID     string           `json:"participant_id"`
	Context           Context          `json:"context"`
	Phase             Phase            `json:"phase"`
	CurrentTopic      string           `json:"current_topic"`
	CurrentDifficulty level.Difficulty `json:"current_difficulty"`
	Turns             []Turn           `json:"turns"`
	QAPairs           []*QAPair        `json:"qa_pairs"`
	Stats             Stats            `json:"stats"`
	MaxHistory        int              `json:"max_history"`
	Dialogue          []DialogueEntry  `json:"dialogue"`
	Topics            []topic.Entry    `json:"topics"`
	StartedAt         time.Time        `json:"started_at"`
}

// MarshalSnapshot serializes the full state.
func (s *State) MarshalSnapshot() ([]byte, error) {
	return json.MarshalIndent(snapshotData{
		FormatVersion:     SnapshotVersion,
		ParticipantID:     s.ParticipantID,
		Context:           s.Context,
		Phase:             s.Phase,
		CurrentTopic:      s.CurrentTopic,
		CurrentDifficulty: s.CurrentDifficulty,
		Turns:             s.Turns,
		QAPairs:           s.QAPairs,
		Stats:             s.Stats,
		MaxHistory:        s.Dialogue.Max(),
		Dialogue:          s.Dialogue.Entries(),
		Topics:            s.Topics.Snapshot(),
		StartedAt:         s.StartedAt,
	}, "", "  ")
}

// UnmarshalSnapshot restores a state written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*State, error) {
	var snap snapshotData
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	v := snap.FormatVersion
	if !semver.IsValid(v) || semver.Major(v) != semver.Major(SnapshotVersion) {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotVersion, v)
	}

	d := NewDialogue(snap.MaxHistory)
	d.entries = snap.Dialogue

	return &State{
		ParticipantID:     snap.ParticipantID,
		Context:           snap.Context,
		Phase:             snap.Phase,
		CurrentTopic:      snap.CurrentTopic,
		CurrentDifficulty: snap.CurrentDifficulty,
		Turns:             snap.Turns,
		QAPairs:           snap.QAPairs,
		Stats:             snap.Stats,
		Dialogue:          d,
		Topics:            topic.LoadSnapshot(snap.Topics),
		StartedAt:         snap.StartedAt,
	}, nil
}
