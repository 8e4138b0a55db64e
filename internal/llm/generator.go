package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// HistoryWindow is how many trailing history messages are sent with a call.
const HistoryWindow = 10

const defaultSystemPrompt = "You are a helpful technical interview assistant."

// GeneratorConfig tunes free-text generation.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single call. Zero disables the bound.
	Timeout time.Duration
}

// DefaultGeneratorConfig returns the settings used for interview turns.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   1024,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// Generator exposes a Provider as a text-in, text-out service.
type Generator struct {
	provider Provider
	cfg      GeneratorConfig
}

// NewGenerator wraps provider.
func NewGenerator(provider Provider, cfg GeneratorConfig) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// ModelID returns the underlying provider's model.
func (g *Generator) ModelID() string {
	return g.provider.ModelID()
}

// Generate sends system and user prompts plus the tail of history and
// returns the reply text.
func (g *Generator) Generate(ctx context.Context, system, user string, history []Message) (string, error) {
	if strings.TrimSpace(system) == "" {
		system = defaultSystemPrompt
	}

	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: user})

	resp, err := g.call(ctx, Request{
		System:      system,
		Messages:    msgs,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	return ResponseText(resp.Content), nil
}

// GenerateWithTemplate renders tmpl with vars and generates from the result.
// A template that fails to render is sent raw, and the TemplateError is
// returned alongside the reply so callers can log it.
func (g *Generator) GenerateWithTemplate(ctx context.Context, tmpl string, vars map[string]any, system string) (string, error) {
	prompt, renderErr := RenderTemplate(tmpl, vars)
	if renderErr != nil {
		prompt = tmpl
	}

	out, err := g.Generate(ctx, system, prompt, nil)
	if err != nil {
		return "", err
	}
	if renderErr != nil {
		return out, renderErr
	}
	return out, nil
}

// GenerateJSON requests output conforming to schema and decodes it into out.
// Output is checked against schema here too, since not every provider
// enforces structured output.
func (g *Generator) GenerateJSON(ctx context.Context, system, user string, schema *Schema, out any) error {
	resp, err := g.call(ctx, Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		Schema:      schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return err
	}
	if err := validateResponse(schema, resp.Content); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return nil
}

func (g *Generator) call(ctx context.Context, req Request) (*Response, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	return g.provider.Generate(ctx, req)
}

// RenderTemplate executes tmpl as a text/template over vars. Referencing a
// variable that is not in vars is an error.
func RenderTemplate(tmpl string, vars map[string]any) (string, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", &TemplateError{Template: tmpl, Err: err}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", &TemplateError{Template: tmpl, Err: err}
	}
	return buf.String(), nil
}

// ResponseText returns response content as plain text. Providers return raw
// model text; content that is a JSON string literal is unquoted.
func ResponseText(content json.RawMessage) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(string(trimmed))
}

// HistoryMessage converts a speaker-tagged line into a Message.
func HistoryMessage(fromCandidate bool, content string) Message {
	if fromCandidate {
		return Message{Role: RoleUser, Content: content}
	}
	return Message{Role: RoleAssistant, Content: content}
}

func (c GeneratorConfig) String() string {
	return fmt.Sprintf("max_tokens=%d temperature=%.2f timeout=%s", c.MaxTokens, c.Temperature, c.Timeout)
}
