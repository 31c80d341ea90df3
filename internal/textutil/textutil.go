package textutil

import (
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/reiver/go-porterstemmer"
	"golang.org/x/text/unicode/norm"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"in": true, "on": true, "at": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "as": true, "into": true,
	"about": true, "what": true, "which": true, "who": true, "whom": true,
	"how": true, "when": true, "where": true, "why": true, "can": true,
	"could": true, "should": true, "would": true, "will": true, "do": true,
	"does": true, "did": true, "has": true, "have": true, "had": true,
	"you": true, "your": true, "they": true, "their": true, "we": true,
	"our": true, "not": true, "no": true, "if": true, "then": true, "than": true,
	"so": true, "up": true, "out": true, "more": true, "most": true,
	"best": true, "top": true, "get": true, "make": true, "vs": true,
}

var nonLetter = regexp.MustCompile(`[^a-z\s]`)
var multiSpace = regexp.MustCompile(`\s+`)

// WordCount counts whitespace-separated tokens that carry at least one letter
// or digit, so markdown markers ("#", "-", "**") do not inflate the count.
func WordCount(text string) int {
	count := 0
	for _, tok := range strings.Fields(text) {
		if strings.ContainsFunc(tok, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			count++
		}
	}
	return count
}

// Normalize lowercases text and strips everything but letters, collapsing
// whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, "/", " ")
	text = nonLetter.ReplaceAllString(text, " ")
	text = multiSpace.ReplaceAllString(text, " ")
	return norm.NFC.String(strings.TrimSpace(text))
}

// Tokenize normalizes and splits text, dropping stop words and one-letter
// tokens.
func Tokenize(text string) []string {
	var filtered []string
	for _, tok := range strings.Fields(Normalize(text)) {
		if len(tok) <= 1 || stopWords[tok] {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// StemTokens reduces tokens to porter stems. The stemmer can panic on odd
// input, so each token is guarded individually.
func StemTokens(tokens []string) []string {
	var res []string
	for _, token := range tokens {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("WARNING: recovered from panic while stemming token '%s': %v", token, r)
				}
			}()
			stemmed := porterstemmer.StemString(token)
			if len(stemmed) <= 1 {
				return
			}
			res = append(res, stemmed)
		}()
	}
	return res
}

// StemSet returns the set of porter stems present in text.
func StemSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, stem := range StemTokens(Tokenize(text)) {
		set[stem] = true
	}
	return set
}

// TopTokens returns the n most frequent non-stopword tokens across texts,
// ties broken alphabetically so the order is stable.
func TopTokens(texts []string, n int) []string {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			freq[tok]++
		}
	}
	tokens := make([]string, 0, len(freq))
	for tok := range freq {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if freq[tokens[i]] != freq[tokens[j]] {
			return freq[tokens[i]] > freq[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}
