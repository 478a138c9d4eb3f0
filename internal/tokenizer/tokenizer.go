// Package tokenizer analyzes free text from match queries into index terms.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
)

// acronymRegex handles cases like "HTTPRequest" -> "HTTP Request"
var acronymRegex = regexp.MustCompile(`(\p{Lu}+)(\p{Lu}\p{Ll})`)

// camelCaseRegex handles cases like "theOffice" -> "the Office"
var camelCaseRegex = regexp.MustCompile(`([\p{Ll}\p{Nd}])(\p{Lu})`)

// Analyzer turns text into terms. The zero value splits words, lowercases
// them and keeps duplicates.
type Analyzer struct {
	// StopWords are dropped after lowercasing.
	StopWords map[string]struct{}
	// Unique drops repeated terms, keeping the first occurrence.
	Unique bool
}

// NewStopWordAnalyzer returns an analyzer that drops stopWords. Stop words
// are matched after lowercasing.
func NewStopWordAnalyzer(stopWords []string) Analyzer {
	set := make(map[string]struct{}, len(stopWords))
	for _, word := range stopWords {
		set[strings.ToLower(word)] = struct{}{}
	}
	return Analyzer{StopWords: set}
}

// Standard is the analyzer used by match queries.
var Standard = Analyzer{}

// Analyze splits camel/PascalCase, lowercases, and splits on anything that is
// not a letter or a digit. The result is never nil.
func (a Analyzer) Analyze(text string) []string {
	text = acronymRegex.ReplaceAllString(text, "$1 $2")
	text = camelCaseRegex.ReplaceAllString(text, "$1 $2")

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := make([]string, 0, len(words))
	var seen map[string]struct{}
	if a.Unique {
		seen = make(map[string]struct{}, len(words))
	}
	for _, word := range words {
		if _, stop := a.StopWords[word]; stop {
			continue
		}
		if seen != nil {
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
		}
		terms = append(terms, word)
	}
	return terms
}

// Tokenize analyzes text with the Standard analyzer.
func Tokenize(text string) []string {
	return Standard.Analyze(text)
}
