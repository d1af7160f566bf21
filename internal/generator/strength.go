package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nbutton23/zxcvbn-go"
)

// StrongThreshold is the lowest score reported as strong.
const StrongThreshold = 70

// Scoring weights.
const (
	perClassBonus    = 15
	repeatPenalty    = 15
	patternPenalty   = 20
	maxScore         = 100
	shortCharWeight  = 2
	minRecommendSize = 12
)

// Strength is the result of [Evaluate].
//
// Score is a heuristic built from length, character variety and a short
// list of weak patterns; it is what IsStrong is derived from. EntropyBits
// and CrackTime come from zxcvbn and are shown to the user for context only.
type Strength struct {
	Score       int
	IsStrong    bool
	Feedback    []string
	EntropyBits float64
	CrackTime   string
}

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// Evaluate scores password on a 0..100 scale.
func Evaluate(password string) Strength {
	var (
		score    int
		feedback []string
	)

	n := utf8.RuneCountInString(password)
	score += lengthScore(n)
	if n < minRecommendSize {
		feedback = append(feedback, "Use at least 12 characters")
	}

	upper, lower, digit, symbol := classes(password)
	for _, c := range []struct {
		present bool
		hint    string
	}{
		{upper, "Add uppercase letters"},
		{lower, "Add lowercase letters"},
		{digit, "Add numbers"},
		{symbol, "Add symbols"},
	} {
		if c.present {
			score += perClassBonus
		} else {
			feedback = append(feedback, c.hint)
		}
	}

	if hasRepeatedRun(password, 3) {
		score -= repeatPenalty
		feedback = append(feedback, "Avoid repeating the same character three or more times")
	}

	lowered := strings.ToLower(password)
	if hasSequence(lowered, Digits, 3) {
		score -= patternPenalty
		feedback = append(feedback, "Avoid common patterns like sequential numbers (123)")
	}
	if hasSequence(lowered, Lowercase, 3) {
		score -= patternPenalty
		feedback = append(feedback, "Avoid common patterns like sequential letters (abc)")
	}
	if strings.Contains(lowered, "password") {
		score -= patternPenalty
		feedback = append(feedback, `Avoid common words like "password"`)
	}
	if hasKeyboardRun(lowered, 4) {
		score -= patternPenalty
		feedback = append(feedback, "Avoid common keyboard patterns (qwerty)")
	}

	score = max(0, min(maxScore, score))

	s := Strength{
		Score:    score,
		IsStrong: score >= StrongThreshold,
		Feedback: feedback,
	}
	if password != "" {
		m := zxcvbn.PasswordStrength(password, nil)
		s.EntropyBits = m.Entropy
		s.CrackTime = m.CrackTimeDisplay
	}
	return s
}

func lengthScore(n int) int {
	switch {
	case n >= 16:
		return 40
	case n >= 12:
		return 30
	case n >= 8:
		return 20
	default:
		return n * shortCharWeight
	}
}

func classes(s string) (upper, lower, digit, symbol bool) {
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			symbol = true
		}
	}
	return
}

func hasRepeatedRun(s string, run int) bool {
	var (
		prev  rune
		count int
	)
	for _, r := range s {
		if r == prev {
			count++
		} else {
			prev, count = r, 1
		}
		if count >= run {
			return true
		}
	}
	return false
}

// hasSequence reports whether s contains size consecutive characters of
// alphabet, ascending or descending.
func hasSequence(s, alphabet string, size int) bool {
	reversed := reverse(alphabet)
	for i := 0; i+size <= len(alphabet); i++ {
		if strings.Contains(s, alphabet[i:i+size]) || strings.Contains(s, reversed[i:i+size]) {
			return true
		}
	}
	return false
}

func hasKeyboardRun(s string, size int) bool {
	for _, row := range keyboardRows {
		for i := 0; i+size <= len(row); i++ {
			if strings.Contains(s, row[i:i+size]) {
				return true
			}
		}
	}
	return false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
