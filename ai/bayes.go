package ai

import (
	"math"
	"sort"

	"udara-lab/errors"
)

// Bayes is a multinomial naive Bayes classifier. Each TF-IDF weight is
// treated as a pseudo-count of a word-like event, with additive smoothing so
// no class ever reaches zero probability.
//
// Classes is kept sorted; prediction ties resolve to the first maximum, which
// makes the tie-break stable and deterministic.
type Bayes struct {
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	Alpha          float64     `json:"alpha"`
}

// NewBayes creates an unfitted classifier with the given smoothing constant.
// Non-positive alpha falls back to Laplace smoothing (1.0).
func NewBayes(alpha float64) *Bayes {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &Bayes{Alpha: alpha}
}

// Fit estimates class priors and per-class feature likelihoods from the
// training vectors. nFeatures is the vectorizer dimension; vectors may be
// sparse but never index beyond it.
func (b *Bayes) Fit(vectors []FeatureVector, labels []string, nFeatures int) error {
	if len(vectors) != len(labels) {
		return errors.ErrLabelMismatch
	}
	if len(vectors) == 0 {
		return errors.ErrInsufficientData
	}

	classSet := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		classSet[label] = struct{}{}
	}
	classes := make([]string, 0, len(classSet))
	for class := range classSet {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, class := range classes {
		index[class] = i
	}

	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, nFeatures)
	}
	docCount := make([]float64, len(classes))

	for i, vec := range vectors {
		c := index[labels[i]]
		docCount[c]++
		for _, f := range vec.indices() {
			featureCount[c][f] += vec[f]
		}
	}

	b.Classes = classes
	b.ClassLogPrior = make([]float64, len(classes))
	b.FeatureLogProb = make([][]float64, len(classes))
	total := float64(len(vectors))
	for c := range classes {
		b.ClassLogPrior[c] = math.Log(docCount[c] / total)

		var classTotal float64
		for _, w := range featureCount[c] {
			classTotal += w
		}
		denom := classTotal + b.Alpha*float64(nFeatures)

		b.FeatureLogProb[c] = make([]float64, nFeatures)
		for f := 0; f < nFeatures; f++ {
			b.FeatureLogProb[c][f] = math.Log((featureCount[c][f] + b.Alpha) / denom)
		}
	}
	return nil
}

// Predict returns the most likely class for the vector along with the full
// probability distribution over the training label set. An empty vector
// degrades to the prior distribution, never an error.
func (b *Bayes) Predict(vec FeatureVector) (string, map[string]float64) {
	jll := b.jointLogLikelihood(vec)

	// Log-sum-exp normalization keeps tiny likelihoods from underflowing.
	maxLL := jll[0]
	for _, ll := range jll[1:] {
		if ll > maxLL {
			maxLL = ll
		}
	}
	var sum float64
	probs := make([]float64, len(jll))
	for c, ll := range jll {
		probs[c] = math.Exp(ll - maxLL)
		sum += probs[c]
	}

	best := 0
	distribution := make(map[string]float64, len(b.Classes))
	for c, class := range b.Classes {
		probs[c] /= sum
		distribution[class] = probs[c]
		if probs[c] > probs[best] {
			best = c
		}
	}
	return b.Classes[best], distribution
}

func (b *Bayes) jointLogLikelihood(vec FeatureVector) []float64 {
	jll := make([]float64, len(b.Classes))
	copy(jll, b.ClassLogPrior)
	for _, f := range vec.indices() {
		for c := range jll {
			jll[c] += vec[f] * b.FeatureLogProb[c][f]
		}
	}
	return jll
}
