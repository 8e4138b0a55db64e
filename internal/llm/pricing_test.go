package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		id    string
		found bool
	}{
		{"gpt-4o-mini", true},
		{"  GPT-4o-Mini ", true},
		{"anthropic/claude-sonnet-4-5", true},
		{"mock", false},
		{"", false},
	}
	for _, tt := range tests {
		got := LookupCost(tt.id)
		if (got != nil) != tt.found {
			t.Errorf("LookupCost(%q) found = %v, want %v", tt.id, got != nil, tt.found)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 3, OutputPerMTok: 15}
	got := c.Cost(1_000_000, 100_000)
	if math.Abs(got-4.5) > 1e-9 {
		t.Fatalf("expected 4.5, got %f", got)
	}
	if c.Cost(0, 0) != 0 {
		t.Fatal("expected zero cost for zero tokens")
	}
}
