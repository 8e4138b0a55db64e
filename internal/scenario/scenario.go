// Package scenario replays scripted candidate dialogues through an
// interview session.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/intervio/internal/session"
)

// ErrInvalidScenario is returned for files that fail to parse or validate.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a candidate context plus the messages the candidate sends.
type Scenario struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description,omitempty"`
	Context     session.Context `yaml:"context" json:"context"`
	Dialogue    []string        `yaml:"dialogue" json:"dialogue"`
}

//go:embed schema.json
var schemaJSON []byte

//go:embed sample.yaml
var sampleYAML []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func scenarioSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse scenario schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://scenario.json", doc); err != nil {
			compileErr = fmt.Errorf("add scenario schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://scenario.json")
	})
	return compiled, compileErr
}

// Parse decodes a YAML or JSON scenario and validates it against the
// scenario schema.
func Parse(data []byte) (*Scenario, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	// Round-trip through JSON so the validator sees JSON types only.
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	sch, err := scenarioSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Sample returns the built-in scenario.
func Sample() *Scenario {
	sc, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in scenario is invalid: %v", err))
	}
	return sc
}
