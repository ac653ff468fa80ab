// Package skills turns free text into comparable skill tokens.
package skills

import (
	"sort"
	"strings"
	"unicode"
)

const (
	listSeparator = ","
	andSeparator  = " and "
	andWord       = "and"
)

// Set is a set of normalized skill tokens.
type Set map[string]struct{}

// Normalize extracts the skill tokens of text.
//
// The text is lower-cased and trimmed, split on commas and then on " and ",
// and every segment is broken into runs of letters and digits. Punctuation is
// dropped, and a bare "and" is treated as a separator rather than a token.
// Empty input yields an empty set.
func Normalize(text string) Set {
	set := make(Set)

	for _, segment := range splitList(text) {
		for _, token := range tokenize(segment) {
			if token == andWord {
				continue
			}
			set[token] = struct{}{}
		}
	}

	return set
}

// splitList applies the list separators shared by Normalize and Vocabulary.
func splitList(text string) []string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return nil
	}

	var segments []string
	for _, part := range strings.Split(text, listSeparator) {
		segments = append(segments, strings.Split(part, andSeparator)...)
	}

	return segments
}

func tokenize(segment string) []string {
	return strings.FieldsFunc(segment, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Len returns the number of tokens.
func (s Set) Len() int {
	return len(s)
}

// Has reports whether token is in the set.
func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Intersect returns the tokens present in both sets, sorted.
func (s Set) Intersect(other Set) []string {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}

	common := make([]string, 0, len(small))
	for token := range small {
		if large.Has(token) {
			common = append(common, token)
		}
	}
	sort.Strings(common)

	return common
}

// Sorted returns the tokens in lexical order.
func (s Set) Sorted() []string {
	tokens := make([]string, 0, len(s))
	for token := range s {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	return tokens
}

// String renders the set as a comma separated list. Normalizing the result
// gives back the same set.
func (s Set) String() string {
	return strings.Join(s.Sorted(), ", ")
}
