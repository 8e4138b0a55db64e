package evaluator

import (
	"strings"
	"unicode/utf8"
)

// Detector flags a property of free text. Detectors are pure.
type Detector interface {
	Name() string
	Detect(text string) bool
}

var offTopicKeywords = []string{
	"weather", "vacation", "salary", "office", "remote", "team", "boss",
	"погода", "отпуск", "зарплата", "офис", "удаленка", "команда", "начальник",
}

var interrogatives = []string{
	"why", "how", "what", "when", "where",
	"почему", "как", "что", "когда", "где", "зачем",
}

// HedgePhrases are fillers and evasions that mark an answer as not
// meaningful.
var HedgePhrases = []string{
	"don't know", "dont know", "idk", "no idea", "not sure", "i guess",
	"can't remember", "forgot", "maybe", "probably", "perhaps", "um", "uh",
	"не знаю", "хз", "не помню", "забыл", "тыкаю", "как бы", "типа", "ну",
	"эээ", "ага", "угу", "да нет", "скорее всего", "возможно", "может быть",
	"наверное",
}

var hallucinationMarkers = []string{
	"hallucination: yes", "hallucinations: yes", "fabricated",
	"factually incorrect", "false claims", "made up",
	"галлюцинации: да", "выдумал", "ложные утверждения",
	"ошибочно утверждает", "не соответствует фактам",
}

// OffTopic flags answers that drift to non-technical subjects.
type OffTopic struct{}

func (OffTopic) Name() string { return "offtopic" }

func (OffTopic) Detect(text string) bool {
	return ContainsAnyPhrase(Normalize(text), offTopicKeywords)
}

// CounterQuestion flags answers where the candidate asks something back.
type CounterQuestion struct{}

func (CounterQuestion) Name() string { return "counter-question" }

func (CounterQuestion) Detect(text string) bool {
	if strings.Contains(text, "?") {
		return true
	}
	if utf8.RuneCountInString(text) <= 10 {
		return false
	}
	return ContainsAnyPhrase(Normalize(text), interrogatives)
}

// Hedge flags evasive or filler answers.
type Hedge struct{}

func (Hedge) Name() string { return "hedge" }

func (Hedge) Detect(text string) bool {
	return ContainsAnyPhrase(Normalize(text), HedgePhrases)
}

// Hallucination inspects analysis text for fabrication markers. Markers
// carry punctuation, so this matches substrings of the lowercased text.
type Hallucination struct{}

func (Hallucination) Name() string { return "hallucination" }

func (Hallucination) Detect(analysis string) bool {
	lower := strings.ToLower(analysis)
	for _, m := range hallucinationMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// DefaultDetectors returns the answer detectors in evaluation order.
func DefaultDetectors() []Detector {
	return []Detector{OffTopic{}, CounterQuestion{}, Hedge{}}
}

// RunDetectors returns the names of every detector that fired.
func RunDetectors(detectors []Detector, text string) map[string]bool {
	out := make(map[string]bool, len(detectors))
	for _, d := range detectors {
		if d.Detect(text) {
			out[d.Name()] = true
		}
	}
	return out
}
