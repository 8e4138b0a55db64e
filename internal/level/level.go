// Package level defines the interview difficulty ladder.
package level

import (
	"fmt"
	"strings"
)

// Difficulty is one rung of the junior → middle → senior ladder.
type Difficulty string

const (
	Junior Difficulty = "junior"
	Middle Difficulty = "middle"
	Senior Difficulty = "senior"
)

// Ladder lists difficulties from easiest to hardest.
var Ladder = []Difficulty{Junior, Middle, Senior}

func (d Difficulty) index() int {
	for i, l := range Ladder {
		if l == d {
			return i
		}
	}
	return 0
}

// Escalate returns the next harder difficulty, saturating at Senior.
func (d Difficulty) Escalate() Difficulty {
	i := d.index()
	if i+1 >= len(Ladder) {
		return Ladder[len(Ladder)-1]
	}
	return Ladder[i+1]
}

// Simplify returns the next easier difficulty, saturating at Junior.
func (d Difficulty) Simplify() Difficulty {
	i := d.index()
	if i == 0 {
		return Ladder[0]
	}
	return Ladder[i-1]
}

// Valid reports whether d is on the ladder.
func (d Difficulty) Valid() bool {
	for _, l := range Ladder {
		if l == d {
			return true
		}
	}
	return false
}

func (d Difficulty) String() string { return string(d) }

// Parse converts a case-insensitive name to a Difficulty. An empty string
// yields Junior.
func Parse(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Junior, nil
	}
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}
