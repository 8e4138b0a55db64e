package planner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	bracketRe    = regexp.MustCompile(`\[.*?\]`)
	emphasisRe   = regexp.MustCompile(`\*.*?\*`)
	// Only _spans_ standing alone as words; identifiers like __init__ or
	// snake_case are left intact.
	underscoreRe = regexp.MustCompile(`(^|[\s(])_[^_\s][^_]*?_($|[\s.,;:!?)])`)
	numberingRe  = regexp.MustCompile(`^\d+\.\s*`)
	bulletRe     = regexp.MustCompile(`^[-*]\s*`)
)

// metaMarkers identify prompt-echo lines that are not part of a question.
var metaMarkers = []string{
	"additional aspects",
	"if the candidate does not",
	"consider the following",
	"example of a good question",
	"question format",
	"generate a question",
	"дополнительные аспекты",
	"если кандидат не затронет",
	"рассмотрите следующие аспекты",
	"пример хорошего вопроса",
	"формат вопроса",
	"сгенерируй вопрос",
}

// maxNormalizePasses bounds the fixed-point loop in Normalize.
const maxNormalizePasses = 8

// Normalize cleans generated question text: markup and meta lines are
// removed, whitespace is collapsed, and longer questions end with "?".
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	for range maxNormalizePasses {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizeOnce(s string) string {
	s = bracketRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	s = underscoreRe.ReplaceAllString(s, "${1}${2}")

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "===") || isMeta(line) {
			continue
		}
		line = numberingRe.ReplaceAllString(line, "")
		line = bulletRe.ReplaceAllString(line, "")
		kept = append(kept, line)
	}
	s = strings.Join(strings.Fields(strings.Join(kept, " ")), " ")

	s = capitalize(s)
	if utf8.RuneCountInString(s) > 10 && !strings.HasSuffix(s, "?") {
		s = strings.TrimRight(s, ".") + "?"
	}
	return s
}

func isMeta(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range metaMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// maxReplyRunes caps off-topic and counter-question replies.
const maxReplyRunes = 500

func cleanReply(s string) string {
	s = bracketRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > maxReplyRunes {
		s = string([]rune(s)[:maxReplyRunes-3]) + "..."
	}
	return s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
