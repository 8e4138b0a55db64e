package session

import (
	"strings"
)

// DuplicateThreshold is the Jaccard similarity above which two questions
// count as the same.
const DuplicateThreshold = 0.7

// HasBeenAsked reports whether question is a near-duplicate of any prior
// question in the session.
func (s *State) HasBeenAsked(question string, threshold float64) bool {
	for _, qa := range s.QAPairs {
		if Similarity(qa.Question, question) > threshold {
			return true
		}
	}
	return false
}

// PriorQuestions returns every question asked so far.
func (s *State) PriorQuestions() []string {
	out := make([]string, len(s.QAPairs))
	for i, qa := range s.QAPairs {
		out[i] = qa.Question
	}
	return out
}

// Similarity is the Jaccard index over lowercase whitespace tokens.
func Similarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 0
	}
	inter := 0
	for w := range ta {
		if _, ok := tb[w]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}

type topicKeywords struct {
	topic    string
	keywords []string
}

// topicTable is checked in order; the first topic with a keyword hit wins.
var topicTable = []topicKeywords{
	{"python", []string{"python", "django", "flask", "pandas", "питон"}},
	{"sql", []string{"sql", "select", "join", "query", "запрос"}},
	{"git", []string{"git", "commit", "branch", "merge", "rebase"}},
	{"algorithms", []string{"algorithm", "sorting", "complexity", "big o", "алгоритм", "сортировк"}},
	{"oop", []string{"oop", "class", "inheritance", "polymorphism", "encapsulation", "ооп", "наследован"}},
	{"databases", []string{"database", "index", "transaction", "postgres", "mysql", "база данных", "индекс"}},
	{"web", []string{"http", "rest", "api", "frontend", "backend", "browser"}},
	{"testing", []string{"test", "pytest", "unit", "mock", "тест"}},
}

// ExtractTopic maps free text to a coarse topic.
func ExtractTopic(text string) string {
	lower := strings.ToLower(text)
	for _, tk := range topicTable {
		for _, k := range tk.keywords {
			if strings.Contains(lower, k) {
				return tk.topic
			}
		}
	}
	return DefaultTopic
}

// RelevantTurns returns dialogue entries touching topicName, plus candidate
// questions, newest last and at most maxTurns long.
func (s *State) RelevantTurns(topicName string, maxTurns int) []DialogueEntry {
	keywords := []string{strings.ToLower(topicName)}
	for _, tk := range topicTable {
		if tk.topic == strings.ToLower(topicName) {
			keywords = append(keywords, tk.keywords...)
		}
	}

	var out []DialogueEntry
	for _, e := range s.Dialogue.Entries() {
		lower := strings.ToLower(e.Message)
		relevant := e.Speaker == SpeakerCandidate && strings.Contains(e.Message, "?")
		for _, k := range keywords {
			if k != "" && strings.Contains(lower, k) {
				relevant = true
				break
			}
		}
		if relevant {
			out = append(out, e)
		}
	}
	if maxTurns > 0 && len(out) > maxTurns {
		out = out[len(out)-maxTurns:]
	}
	return out
}
