package evaluator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	accuracyRe   = regexp.MustCompile(`(?i)(?:accuracy|точность):\s*(\d+)\s*/\s*10`)
	confidenceRe = regexp.MustCompile(`(?i)(?:confidence|уверенность):\s*(\d+)\s*/\s*10`)
)

type keywordScore struct {
	keywords []string
	score    int
}

var scoreBuckets = []keywordScore{
	{[]string{"excellent", "отличн", "10/10"}, 9},
	{[]string{"good", "хорошо", "8/10"}, 8},
	{[]string{"satisfactory", "удовлетворительно", "6/10"}, 6},
	{[]string{"poor", "плохо", "3/10"}, 3},
}

// ExtractScore reads the numeric quality from analysis text, clamped to
// 1..10. Without an explicit score, keyword buckets apply; the default is 5.
func ExtractScore(analysis string) int {
	if m := accuracyRe.FindStringSubmatch(analysis); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return clampInt(n, 1, 10)
		}
	}
	lower := strings.ToLower(analysis)
	for _, b := range scoreBuckets {
		for _, k := range b.keywords {
			if strings.Contains(lower, k) {
				return b.score
			}
		}
	}
	return 5
}

// ExtractConfidence reads the evaluator confidence from analysis text,
// clamped to 0..1. The default is 0.5.
func ExtractConfidence(analysis string) float64 {
	if m := confidenceRe.FindStringSubmatch(analysis); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return clampFloat(float64(n)/10, 0, 1)
		}
	}
	lower := strings.ToLower(analysis)
	switch {
	case strings.Contains(lower, "high confidence"), strings.Contains(lower, "высокая уверенность"):
		return 0.8
	case strings.Contains(lower, "medium confidence"), strings.Contains(lower, "средняя уверенность"):
		return 0.5
	case strings.Contains(lower, "low confidence"), strings.Contains(lower, "низкая уверенность"):
		return 0.2
	}
	return 0.5
}

// Recommend derives the next-step recommendation from analysis text and
// the candidate's position.
func Recommend(analysis, position string, hallucination bool) string {
	lower := strings.ToLower(analysis)

	rec := RecContinue
	switch {
	case hallucination:
		rec = RecHallucination
	case containsAny(lower, "don't know", "did not answer", "не знаю", "не ответил"):
		rec = RecDidNotAnswer
	case containsAny(lower, "excellent", "outstanding", "отличн", "превосходн"):
		rec = RecExcellent
	case containsAny(lower, "confidence: low", "уверенность: низк"):
		rec = RecLowConfidence
	}

	return rec + roleSuffix(position)
}

func roleSuffix(position string) string {
	p := strings.ToLower(position)
	switch {
	case strings.Contains(p, "backend"):
		return suffixBackend
	case strings.Contains(p, "frontend"):
		return suffixFrontend
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
