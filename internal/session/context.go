package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContext reports a candidate context that cannot start a session.
var ErrInvalidContext = errors.New("invalid interview context")

const (
	DefaultTopic    = "general questions"
	DefaultPosition = "developer"
	DefaultGrade    = "Junior"
)

// DefaultTechnologies is the rotation used when none are declared.
var DefaultTechnologies = []string{"Python", "databases", "algorithms"}

var knownGrades = []string{"trainee", "intern", "junior", "middle", "senior", "lead"}

// Context describes the candidate. It is fixed for the life of a session.
type Context struct {
	Name         string   `json:"participant_name" yaml:"participant_name"`
	Position     string   `json:"position" yaml:"position"`
	Grade        string   `json:"grade" yaml:"grade"`
	Experience   string   `json:"experience" yaml:"experience"`
	Technologies []string `json:"technologies" yaml:"technologies"`
}

// Validate rejects blank technology entries and unknown grades.
func (c Context) Validate() error {
	for i, t := range c.Technologies {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: technology #%d is blank", ErrInvalidContext, i+1)
		}
	}
	if g := strings.ToLower(strings.TrimSpace(c.Grade)); g != "" {
		known := false
		for _, k := range knownGrades {
			if g == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: unknown grade %q", ErrInvalidContext, c.Grade)
		}
	}
	return nil
}

// WithDefaults returns a copy with empty fields filled in.
func (c Context) WithDefaults() Context {
	out := c
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		out.Name = "Candidate"
	}
	out.Position = strings.TrimSpace(out.Position)
	if out.Position == "" {
		out.Position = DefaultPosition
	}
	out.Grade = strings.TrimSpace(out.Grade)
	if out.Grade == "" {
		out.Grade = DefaultGrade
	}
	out.Technologies = make([]string, 0, len(c.Technologies))
	for _, t := range c.Technologies {
		out.Technologies = append(out.Technologies, strings.TrimSpace(t))
	}
	return out
}

// Techs returns the declared technologies, or DefaultTechnologies.
func (c Context) Techs() []string {
	if len(c.Technologies) == 0 {
		return DefaultTechnologies
	}
	return c.Technologies
}
