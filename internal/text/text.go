// Package text holds the word tokenizer and the optimal-recognition-point
// calculator. Both are pure functions shared by the import path and the
// reader display.
package text

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrEmptyDocument is returned when a text yields no words at all.
var ErrEmptyDocument = errors.New("document contains no words")

// Tokenize splits text into words on runs of whitespace, preserving order
// and any punctuation attached to the words themselves.
func Tokenize(s string) ([]string, error) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil, ErrEmptyDocument
	}
	return words, nil
}

// ORPIndex returns the zero-based rune offset of the optimal recognition
// point for a word:
//
//	1 rune        -> 0
//	2-5 runes     -> 1
//	6-9 runes     -> 2
//	10-13 runes   -> 3
//	14+ runes     -> 4
func ORPIndex(word string) int {
	length := utf8.RuneCountInString(word)
	if length == 0 {
		return 0
	}
	var orp int
	switch {
	case length <= 1:
		orp = 0
	case length <= 5:
		orp = 1
	case length <= 9:
		orp = 2
	case length <= 13:
		orp = 3
	default:
		orp = 4
	}
	if orp > length-1 {
		orp = length - 1
	}
	return orp
}
