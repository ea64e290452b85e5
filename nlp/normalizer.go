// Package nlp implements the Indonesian text preprocessing used by the
// classifier: case folding, punctuation and digit stripping, tokenizing,
// two-stage stopword removal and Sastrawi stemming.
//
// The pipeline is purely functional over its input plus two fixed linguistic
// resources, and idempotent: normalizing already-normalized text returns it
// unchanged.
package nlp

import (
	"strings"
	"unicode"

	sastrawi "github.com/RadhiFadlillah/go-sastrawi"
)

// domainStopwords supplements the generic Sastrawi stopword list with
// particles, discourse markers and pronouns common in air quality reports.
// Enumerated once, never learned.
var domainStopwords = map[string]struct{}{
	"dan": {}, "atau": {}, "yang": {}, "di": {}, "ke": {}, "dari": {},
	"ini": {}, "itu": {}, "dengan": {}, "untuk": {}, "pada": {},
	"adalah": {}, "juga": {}, "sudah": {}, "akan": {}, "bisa": {},
	"ada": {}, "tidak": {}, "saya": {}, "kami": {}, "kita": {},
	"mereka": {}, "dia": {}, "ia": {}, "sangat": {}, "sekali": {},
	"terasa": {}, "seperti": {},
}

// Normalizer converts raw Indonesian text into a canonical whitespace-joined
// token string. Safe for concurrent use; it holds no mutable state.
type Normalizer struct {
	stemmer  sastrawi.Stemmer
	stopword sastrawi.Dictionary
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		stemmer:  sastrawi.NewStemmer(sastrawi.DefaultDictionary()),
		stopword: sastrawi.DefaultStopword(),
	}
}

// Normalize runs the full pipeline on one text. It is total: any input,
// including the empty string, yields a (possibly empty) normalized string.
func (n *Normalizer) Normalize(text string) string {
	text = caseFold(text)
	text = stripPunctuation(text)
	tokens := tokenize(text)
	tokens = n.removeStopwords(tokens)
	tokens = n.stemAll(tokens)
	return strings.Join(tokens, " ")
}

// NormalizeBatch applies Normalize to each text independently, preserving
// order. There is no cross-document state, so batch and single-text results
// are always identical.
func (n *Normalizer) NormalizeBatch(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = n.Normalize(text)
	}
	return out
}

func caseFold(text string) string {
	return strings.ToLower(text)
}

// stripPunctuation deletes punctuation, symbols and digits, then collapses
// whitespace runs to single spaces and trims the ends.
func stripPunctuation(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(stripped), " ")
}

func tokenize(text string) []string {
	return strings.Fields(text)
}

// removeStopwords filters tokens in two passes: the generic Sastrawi
// stopword list first, then the supplementary domain set. Both passes run
// before stemming, so a token whose stem would be a stopword is kept.
func (n *Normalizer) removeStopwords(tokens []string) []string {
	kept := tokens[:0]
	for _, tok := range tokens {
		if n.stopword.Contains(tok) {
			continue
		}
		if _, found := domainStopwords[tok]; found {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

// stemAll maps each token to its morphological root. Many-to-one and not
// invertible; words without a known root pass through unchanged.
func (n *Normalizer) stemAll(tokens []string) []string {
	for i, tok := range tokens {
		tokens[i] = n.stemmer.Stem(tok)
	}
	return tokens
}
