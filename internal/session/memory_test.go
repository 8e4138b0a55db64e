package session

import (
	"testing"

	"github.com/abhisek/intervio/internal/level"
	"github.com/abhisek/intervio/internal/llm"
)

func TestHasBeenAsked(t *testing.T) {
	st := newTestState()
	st.OpenQuestion("What is a goroutine in Go?", "Go", level.Junior, t0)

	if !st.HasBeenAsked("what is a goroutine in go?", DuplicateThreshold) {
		t.Error("identical question should be a duplicate")
	}
	if st.HasBeenAsked("How do you design a database index?", DuplicateThreshold) {
		t.Error("different question flagged as duplicate")
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("a b c", "a b c"); got != 1 {
		t.Errorf("identical = %v", got)
	}
	if got := Similarity("a b", "c d"); got != 0 {
		t.Errorf("disjoint = %v", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Errorf("empty = %v", got)
	}
	if got := Similarity("a b c d", "a b"); got != 0.5 {
		t.Errorf("half overlap = %v", got)
	}
}

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Explain Python generators", "python"},
		{"Write a SELECT with a JOIN", "sql"},
		{"What does git rebase do?", "git"},
		{"What is the complexity of quicksort?", "algorithms"},
		{"Explain inheritance", "oop"},
		{"How does a transaction work?", "databases"},
		{"Tell me about yourself", DefaultTopic},
	}
	for _, tt := range tests {
		if got := ExtractTopic(tt.text); got != tt.want {
			t.Errorf("ExtractTopic(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestRelevantTurns(t *testing.T) {
	st := newTestState()
	st.Dialogue.Add(SpeakerInterviewer, "Tell me about Python decorators", t0)
	st.Dialogue.Add(SpeakerCandidate, "They wrap functions", t0)
	st.Dialogue.Add(SpeakerCandidate, "Can I ask about the team?", t0)
	st.Dialogue.Add(SpeakerInterviewer, "What is a SQL index?", t0)

	got := st.RelevantTurns("python", 15)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(got), got)
	}
	if got[1].Message != "Can I ask about the team?" {
		t.Errorf("candidate question not included: %+v", got)
	}
}

func TestEntryMessages(t *testing.T) {
	st := newTestState()
	st.Dialogue.Add(SpeakerInterviewer, "What is a Python generator?", t0)
	st.Dialogue.Add(SpeakerCandidate, "A function that yields values", t0)

	got := EntryMessages(st.RelevantTurns("python", 15))
	if len(got) != 1 || got[0].Role != llm.RoleAssistant {
		t.Fatalf("got %+v", got)
	}
	all := st.Dialogue.Messages(10)
	if len(all) != 2 || all[1].Role != llm.RoleUser || all[1].Content != "A function that yields values" {
		t.Errorf("Messages = %+v", all)
	}
}
