package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-flash-lite", "gemini-2.0-flash-lite"},
		{"gemini-2.5-pro", "gemini-2.5-pro"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct_answer": map[string]any{"type": "string"},
			"explanation":    map[string]any{"type": "string"},
			"quality":        map[string]any{"type": "integer"},
			"difficulty":     map[string]any{"type": "string", "enum": []any{"junior", "middle", "senior"}},
			"topics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"correct_answer", "explanation"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("expected 5 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["explanation"].Type != "STRING" {
		t.Fatalf("expected STRING for explanation, got %s", schema.Properties["explanation"].Type)
	}
	if schema.Properties["quality"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for quality, got %s", schema.Properties["quality"].Type)
	}
	if len(schema.Properties["difficulty"].Enum) != 3 {
		t.Fatalf("expected 3 difficulty levels, got %d", len(schema.Properties["difficulty"].Enum))
	}
	if schema.Properties["topics"].Type != "ARRAY" || schema.Properties["topics"].Items.Type != "STRING" {
		t.Fatalf("expected ARRAY of STRING for topics, got %+v", schema.Properties["topics"])
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}
