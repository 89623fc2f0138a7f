package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func (e *Entry) Content() string { return e.content }

func (e *Entry) Tokens() int { return e.tokens }

// Weight is the number of bytes the entry is charged against the byte budget.
func (e *Entry) Weight() int64 { return e.size }

// CountTokens estimates the size of content in model tokens: the number of
// whitespace-separated words, except that content made of a single repeated
// character is counted by character. It is an approximation, not a tokenizer.
func CountTokens(content string) int {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	if isSingleRepeatedRune(trimmed) {
		return utf8.RuneCountInString(trimmed)
	}
	return len(strings.FieldsFunc(trimmed, unicode.IsSpace))
}

func isSingleRepeatedRune(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	for _, r := range s[size:] {
		if r != first {
			return false
		}
	}
	return true
}

// TokenEfficiency is tokens per KiB of content.
func TokenEfficiency(tokens int, size int64) float64 {
	if size <= 0 {
		return 0
	}
	return float64(tokens) / (float64(size) / 1024)
}
