// Package topic tracks per-topic interview performance.
package topic

import "github.com/abhisek/intervio/internal/level"

// Stat is the running record for one topic.
type Stat struct {
	Asked          bool             `json:"asked"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Difficulty     level.Difficulty `json:"difficulty"`
	LastQuestion   string           `json:"last_question,omitempty"`
}

// Accuracy returns correct/total, or 0 when nothing has been answered.
func (s Stat) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions)
}

// Ledger holds topic stats in first-seen order. Counts only grow.
type Ledger struct {
	order []string
	stats map[string]*Stat
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{stats: make(map[string]*Stat)}
}

func (l *Ledger) entry(name string) *Stat {
	if l.stats == nil {
		l.stats = make(map[string]*Stat)
	}
	if s, ok := l.stats[name]; ok {
		return s
	}
	s := &Stat{Difficulty: level.Junior}
	l.stats[name] = s
	l.order = append(l.order, name)
	return s
}

// Seed registers topics without marking them asked.
func (l *Ledger) Seed(topics ...string) {
	for _, t := range topics {
		if t == "" {
			continue
		}
		l.entry(t)
	}
}

// RecordQuestion marks topic as asked at the given difficulty.
func (l *Ledger) RecordQuestion(topic, question string, d level.Difficulty) {
	if topic == "" {
		return
	}
	s := l.entry(topic)
	s.Asked = true
	s.LastQuestion = question
	if d.Valid() {
		s.Difficulty = d
	}
}

// RecordAnswer counts one answered question against topic.
func (l *Ledger) RecordAnswer(topic string, correct bool) {
	if topic == "" {
		return
	}
	s := l.entry(topic)
	s.Asked = true
	s.TotalQuestions++
	if correct {
		s.CorrectAnswers++
	}
}

// AdjustDifficulty moves the topic's advisory difficulty one step when
// performance is above 0.8 or below 0.4.
func (l *Ledger) AdjustDifficulty(topic string, performance float64) level.Difficulty {
	s := l.entry(topic)
	switch {
	case performance > 0.8:
		s.Difficulty = s.Difficulty.Escalate()
	case performance < 0.4:
		s.Difficulty = s.Difficulty.Simplify()
	}
	return s.Difficulty
}

// Get returns the stat for topic, or a zero Stat when unknown.
func (l *Ledger) Get(topic string) Stat {
	if s, ok := l.stats[topic]; ok {
		return *s
	}
	return Stat{}
}

// Topics returns topic names in first-seen order.
func (l *Ledger) Topics() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}
