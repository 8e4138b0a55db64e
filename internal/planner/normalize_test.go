package planner

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"numbering and period", "1. what is a closure.", "What is a closure?"},
		{"brackets and emphasis", "[Question] *bold* Explain defer", "Explain defer?"},
		{"separator and meta lines", "---\nExample of a good question:\n- How does GC work", "How does GC work?"},
		{"multiline join", "How would you\n   design   a cache?", "How would you design a cache?"},
		{"short stays", "why", "Why"},
		{"already question", "What is SQL?", "What is SQL?"},
		{"empty", "", ""},
		{"italic span", "_Note:_ how does the GC work", "How does the GC work?"},
		{"dunder identifier", "What does __init__ do in Python", "What does __init__ do in Python?"},
		{"snake case", "Compare snake_case and kebab_case naming", "Compare snake_case and kebab_case naming?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"1. 2. - what is a mutex.",
		"[a]_b_*c* explain indexes",
		"  ---\n=== \n tell me about REST...",
		"Что такое транзакция.",
		"What?.",
		"_a_ _b_ explain my_var",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCleanReply_Caps(t *testing.T) {
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'a'
	}
	got := []rune(cleanReply(string(long)))
	if len(got) != maxReplyRunes {
		t.Errorf("len = %d, want %d", len(got), maxReplyRunes)
	}
}
