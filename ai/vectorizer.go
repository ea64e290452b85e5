// Package ai contains the statistical core: a TF-IDF feature extractor and a
// multinomial naive Bayes classifier, composed into an immutable trained
// artifact.
package ai

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// FeatureVector is a sparse TF-IDF vector indexed by the fitted vocabulary.
type FeatureVector map[int]float64

// indices returns the populated feature indices in ascending order. Every
// float accumulation over a vector walks this order, so repeated runs produce
// bit-identical sums regardless of map iteration order.
func (v FeatureVector) indices() []int {
	idx := make([]int, 0, len(v))
	for i := range v {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Vectorizer extracts TF-IDF features over unigrams and bigrams of
// normalized text. Fit freezes the vocabulary and IDF weights; Transform
// silently drops terms outside the vocabulary.
//
// All fields are exported for artifact serialization and must be treated as
// read-only after Fit.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	MaxFeatures int            `json:"max_features"`
	NgramMax    int            `json:"ngram_max"`
}

// NewVectorizer creates an unfitted vectorizer. maxFeatures caps the
// vocabulary size (0 means unlimited); ngramMax of 2 adds bigrams.
func NewVectorizer(maxFeatures, ngramMax int) *Vectorizer {
	if ngramMax < 1 {
		ngramMax = 1
	}
	return &Vectorizer{MaxFeatures: maxFeatures, NgramMax: ngramMax}
}

// Fit builds the vocabulary and IDF weights from the corpus. When the corpus
// holds more distinct terms than MaxFeatures, the most frequent ones are
// kept, ties broken alphabetically.
func (v *Vectorizer) Fit(documents []string) error {
	if len(documents) == 0 {
		return fmt.Errorf("empty corpus")
	}

	df := make(map[string]int)
	cf := make(map[string]int)
	for _, doc := range documents {
		seen := make(map[string]struct{})
		for _, term := range v.terms(doc) {
			cf[term]++
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(cf) == 0 {
		return fmt.Errorf("no terms found in corpus")
	}

	terms := make([]string, 0, len(cf))
	for term := range cf {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.SliceStable(terms, func(i, j int) bool { return cf[terms[i]] > cf[terms[j]] })
		terms = terms[:v.MaxFeatures]
		sort.Strings(terms)
	}

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF, never zero.
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Transform vectorizes one document against the fitted vocabulary: raw term
// counts scaled by IDF, then L2-normalized. Unseen terms contribute nothing;
// a fully out-of-vocabulary document yields an empty vector.
func (v *Vectorizer) Transform(doc string) FeatureVector {
	vec := make(FeatureVector)
	for _, term := range v.terms(doc) {
		if idx, known := v.Vocabulary[term]; known {
			vec[idx]++
		}
	}

	var norm float64
	for _, idx := range vec.indices() {
		vec[idx] *= v.IDF[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// TransformAll vectorizes documents order-preservingly.
func (v *Vectorizer) TransformAll(documents []string) []FeatureVector {
	vectors := make([]FeatureVector, len(documents))
	for i, doc := range documents {
		vectors[i] = v.Transform(doc)
	}
	return vectors
}

// Dimension returns the fitted vocabulary size.
func (v *Vectorizer) Dimension() int {
	return len(v.IDF)
}

// terms expands a normalized document into unigrams and, when NgramMax
// allows, adjacent bigrams. Single-letter tokens carry no signal and are
// skipped.
func (v *Vectorizer) terms(doc string) []string {
	fields := strings.Fields(doc)
	words := fields[:0]
	for _, w := range fields {
		if len([]rune(w)) < 2 {
			continue
		}
		words = append(words, w)
	}

	terms := make([]string, 0, len(words)*v.NgramMax)
	terms = append(terms, words...)
	if v.NgramMax >= 2 {
		for i := 0; i+1 < len(words); i++ {
			terms = append(terms, words[i]+" "+words[i+1])
		}
	}
	return terms
}
