package evaluator

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and replaces everything except letters, digits and
// apostrophes with single spaces. The result is padded with a space on both
// sides so phrase lookups can anchor on word boundaries.
func Normalize(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '’' || r == '\'':
			b.WriteRune('\'')
			space = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// ContainsPhrase reports whether normalized text contains phrase as a whole
// word sequence. text must come from Normalize.
func ContainsPhrase(text, phrase string) bool {
	p := strings.TrimSpace(Normalize(phrase))
	if p == "" {
		return false
	}
	return strings.Contains(text, " "+p+" ")
}

// ContainsAnyPhrase reports whether any phrase matches.
func ContainsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

// Tokens returns the set of lowercase whitespace-separated words in s.
func Tokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[w] = struct{}{}
	}
	return out
}

func sharesToken(a, b string) bool {
	ta := Tokens(a)
	for w := range Tokens(b) {
		if _, ok := ta[w]; ok {
			return true
		}
	}
	return false
}
