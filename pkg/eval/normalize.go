package eval

import (
	"regexp"
	"strings"
)

var (
	letterPattern = regexp.MustCompile(`(?i)\b([a-e])\b`)
	choicePattern = regexp.MustCompile(`\b[A-E]\s*[).]`)
)

// NormalizeText collapses whitespace runs, trims and lowercases.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ExtractOptionLetter recovers a single option letter A-E bounded by word
// boundaries from free text. Returns "" when none is found.
func ExtractOptionLetter(text string) string {
	if text == "" {
		return ""
	}
	m := letterPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// IsMultipleChoice classifies a question by its raw text: a capital letter
// A-E followed by ")" or "." marks a multiple-choice question. The
// classification is independent of the answer's content.
func IsMultipleChoice(questionText string) bool {
	return choicePattern.MatchString(questionText)
}
