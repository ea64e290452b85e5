package ai

import (
	"time"

	"github.com/google/uuid"

	"udara-lab/domain"
	"udara-lab/errors"
)

// Artifact is the immutable fitted pair produced by one training run. It is
// loaded once at process start, never mutated afterwards, and therefore safe
// to share across concurrent readers. Replacing it means re-training and
// restarting the serving process.
type Artifact struct {
	Version    uuid.UUID
	TrainedAt  time.Time
	Vectorizer *Vectorizer
	Classifier *Bayes
}

// Predict vectorizes one normalized text against the fitted vocabulary and
// classifies it. The only error path is a missing or half-loaded artifact;
// empty or fully out-of-vocabulary text is accepted and yields the
// prior-leaning distribution.
func (a *Artifact) Predict(normalized string) (domain.Prediction, error) {
	if a == nil || a.Vectorizer == nil || a.Classifier == nil {
		return domain.Prediction{}, errors.ErrArtifactUnavailable
	}
	vec := a.Vectorizer.Transform(normalized)
	label, distribution := a.Classifier.Predict(vec)
	return domain.Prediction{
		Label:         label,
		Normalized:    normalized,
		Probabilities: distribution,
	}, nil
}

// Labels returns the closed label set the classifier was trained on.
func (a *Artifact) Labels() []string {
	if a == nil || a.Classifier == nil {
		return nil
	}
	labels := make([]string, len(a.Classifier.Classes))
	copy(labels, a.Classifier.Classes)
	return labels
}
