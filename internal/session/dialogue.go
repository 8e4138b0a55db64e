package session

import (
	"time"

	"github.com/abhisek/intervio/internal/llm"
)

// Speaker identifies who wrote a dialogue line.
type Speaker string

const (
	SpeakerCandidate   Speaker = "candidate"
	SpeakerInterviewer Speaker = "interviewer"
)

// DialogueEntry is one line of conversation.
type DialogueEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Dialogue is a bounded history; the oldest entries are dropped first.
type Dialogue struct {
	max     int
	entries []DialogueEntry
}

// NewDialogue creates a history holding at most max entries. A non-positive
// max uses DefaultMaxHistory.
func NewDialogue(max int) *Dialogue {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &Dialogue{max: max}
}

// Add appends an entry, evicting the oldest when full.
func (d *Dialogue) Add(speaker Speaker, message string, now time.Time) {
	d.entries = append(d.entries, DialogueEntry{Speaker: speaker, Message: message, Timestamp: now})
	if over := len(d.entries) - d.max; over > 0 {
		d.entries = append([]DialogueEntry(nil), d.entries[over:]...)
	}
}

// Entries returns a copy of the history.
func (d *Dialogue) Entries() []DialogueEntry {
	out := make([]DialogueEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Last returns up to n most recent entries.
func (d *Dialogue) Last(n int) []DialogueEntry {
	if n <= 0 || n >= len(d.entries) {
		return d.Entries()
	}
	out := make([]DialogueEntry, n)
	copy(out, d.entries[len(d.entries)-n:])
	return out
}

// CandidateMessages returns the candidate's lines among entries.
func CandidateMessages(entries []DialogueEntry) []string {
	var out []string
	for _, e := range entries {
		if e.Speaker == SpeakerCandidate {
			out = append(out, e.Message)
		}
	}
	return out
}

// Messages converts the last n entries to generation history.
func (d *Dialogue) Messages(n int) []llm.Message {
	return EntryMessages(d.Last(n))
}

// EntryMessages converts dialogue entries to generation history: candidate
// lines become user messages, everything else assistant messages.
func EntryMessages(entries []DialogueEntry) []llm.Message {
	out := make([]llm.Message, 0, len(entries))
	for _, e := range entries {
		out = append(out, llm.HistoryMessage(e.Speaker == SpeakerCandidate, e.Message))
	}
	return out
}

// Len returns the number of stored entries.
func (d *Dialogue) Len() int { return len(d.entries) }

// Max returns the capacity.
func (d *Dialogue) Max() int { return d.max }
