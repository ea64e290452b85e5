package nlp

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// DefaultHazardTerms is the vocabulary scanned for in raw reports. Matches
// are surfaced to the web layer for highlighting; they play no part in
// classification.
var DefaultHazardTerms = []string{
	"asap", "bau", "batuk", "debu", "gelap", "kabut",
	"menyengat", "perih", "polusi", "sesak",
}

// HazardSpotter locates known hazard terms in raw text, tolerating case and
// punctuation noise around the words.
type HazardSpotter struct {
	matcher *goahocorasick.Machine
}

func NewHazardSpotter(terms []string) (*HazardSpotter, error) {
	patterns := make([][]rune, len(terms))
	for i, term := range terms {
		patterns[i] = foldRunes([]rune(term))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &HazardSpotter{matcher: m}, nil
}

// Spot returns the distinct hazard terms found in text, in first-seen order.
func (h *HazardSpotter) Spot(text string) []string {
	folded := foldRunes([]rune(text))
	if len(folded) == 0 {
		return nil
	}

	spans := h.matcher.MultiPatternSearch(folded, false)
	if len(spans) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(spans))
	found := make([]string, 0, len(spans))
	for _, span := range spans {
		term := string(span.Word)
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		found = append(found, term)
	}
	return found
}

// foldRunes lowercases and drops punctuation, symbols and digits so that
// "ASAP!!!" still matches the pattern "asap". Spaces are kept: patterns never
// match across word boundaries.
func foldRunes(in []rune) []rune {
	out := make([]rune, 0, len(in))
	for _, r := range in {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}
