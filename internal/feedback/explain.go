package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/intervio/internal/llm"
)

// ExplainRequest describes a gap to explain. An empty Question asks for a
// general study recommendation for Topic.
type ExplainRequest struct {
	Topic           string
	Question        string
	CandidateAnswer string
}

// Explainer writes the corrective text for a knowledge gap.
type Explainer interface {
	Explain(ctx context.Context, req ExplainRequest) (string, error)
}

// JSONGenerator is the structured-output slice of llm.Generator.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, system, user string, schema *llm.Schema, out any) error
}

// ExplanationSchema constrains explainer output.
var ExplanationSchema = &llm.Schema{
	Name:        "gap-explanation",
	Description: "Corrective explanation for a question the candidate answered poorly",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "Short correct answer (1-3 sentences)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the candidate's answer fell short, with an example or analogy",
			},
		},
		"required":             []any{"correct_answer", "explanation"},
		"additionalProperties": false,
	},
}

const explainSystemPrompt = `You are a senior engineer and mentor reviewing a technical interview.
Explain the correct answer simply and constructively. Be polite and specific.`

type explanationOutput struct {
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// LLMExplainer explains gaps through structured generation.
type LLMExplainer struct {
	gen JSONGenerator
}

// NewLLMExplainer creates an explainer over gen.
func NewLLMExplainer(gen JSONGenerator) *LLMExplainer {
	return &LLMExplainer{gen: gen}
}

// Explain returns the correct answer followed by the explanation.
func (e *LLMExplainer) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeFeedback)

	var out explanationOutput
	if err := e.gen.GenerateJSON(ctx, explainSystemPrompt, explainUserMessage(req), ExplanationSchema, &out); err != nil {
		return "", err
	}

	answer := strings.TrimSpace(out.CorrectAnswer)
	if answer == "" {
		return "", fmt.Errorf("explainer returned an empty answer")
	}
	if why := strings.TrimSpace(out.Explanation); why != "" {
		return answer + "\n\n" + why, nil
	}
	return answer, nil
}

func explainUserMessage(req ExplainRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if req.Question == "" {
		fmt.Fprintf(&b, "\nThe candidate struggled with %s in general. Explain how a junior developer should study it: "+
			"where to start, the key concepts, practice tasks and useful resources.", req.Topic)
		return b.String()
	}
	fmt.Fprintf(&b, "Question: %s\n", req.Question)
	fmt.Fprintf(&b, "Candidate answer: %s\n", req.CandidateAnswer)
	b.WriteString("\nGive the correct answer and explain what the candidate missed.")
	return b.String()
}

func fallbackExplanation(req ExplainRequest) string {
	if req.Question == "" {
		return fmt.Sprintf("Start with the basics of %s: read the documentation, take an online course and solve practice tasks.", req.Topic)
	}
	return fmt.Sprintf("The correct answer builds on the core concepts of %s. Review the documentation and worked examples for details.", req.Topic)
}
