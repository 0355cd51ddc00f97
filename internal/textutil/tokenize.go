// Package textutil holds the tokenizer shared by resume parsing and job ranking.
package textutil

import (
	"sort"
	"strings"
	"unicode"
)

// MinTokenLength is the shortest token Tokenize keeps.
const MinTokenLength = 3

// Tokenize lowercases text, turns every non-alphanumeric rune into a separator
// and returns the tokens of at least MinTokenLength runes, in order.
func Tokenize(text string) []string {
	tokens := []string{}
	if text == "" {
		return tokens
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if len([]rune(f)) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Keywords returns the distinct non-stop-word tokens of text in first-seen order.
func Keywords(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, tok := range Tokenize(text) {
		if IsStopWord(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// TokenSet returns the set of tokens in text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// TopTokens returns up to n keywords of text ordered by frequency.
// Ties keep first-occurrence order.
func TopTokens(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	order := []string{}
	for _, tok := range Tokenize(text) {
		if IsStopWord(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// ContainsAny reports whether the lowercased text contains any of the phrases.
// Phrases are expected in lower case.
func ContainsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Overlap counts how many tokens of set appear in pool.
func Overlap(set map[string]struct{}, pool map[string]struct{}) int {
	if len(set) > len(pool) {
		set, pool = pool, set
	}
	n := 0
	for tok := range set {
		if _, ok := pool[tok]; ok {
			n++
		}
	}
	return n
}
