package training

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"udara-lab/ai"
	"udara-lab/errors"
	"udara-lab/nlp"
)

// Options tune one training run. Zero values fall back to the defaults the
// model was designed around.
type Options struct {
	TestFraction float64 // held-out share, default 0.2
	Seed         int64   // split seed, default 42
	MaxFeatures  int     // vocabulary cap, default 1000
	NgramMax     int     // 2 = unigrams + bigrams
	Alpha        float64 // additive smoothing, default 1.0
}

func (o *Options) applyDefaults() {
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = 0.2
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.MaxFeatures == 0 {
		o.MaxFeatures = 1000
	}
	if o.NgramMax == 0 {
		o.NgramMax = 2
	}
	if o.Alpha <= 0 {
		o.Alpha = 1.0
	}
}

// Trainer fits the feature extractor and the classifier jointly on a labeled
// dataset. One-shot and offline; it never runs concurrently with serving.
type Trainer struct {
	log        *slog.Logger
	normalizer *nlp.Normalizer
	opts       Options
}

func NewTrainer(log *slog.Logger, normalizer *nlp.Normalizer, opts Options) *Trainer {
	opts.applyDefaults()
	return &Trainer{log: log, normalizer: normalizer, opts: opts}
}

// Fit normalizes the dataset, splits it with stratification, fits the
// vectorizer on the training partition only, trains the classifier and
// evaluates on the held-out partition. Degenerate datasets (fewer than 2
// samples or fewer than 2 distinct labels) fail with ErrInsufficientData;
// a poorly scoring model is still returned for persistence.
func (t *Trainer) Fit(samples []Sample) (*ai.Artifact, Evaluation, error) {
	if len(samples) < 2 {
		return nil, Evaluation{}, fmt.Errorf("%w: need at least 2 samples, got %d",
			errors.ErrInsufficientData, len(samples))
	}
	distinct := lo.Uniq(lo.Map(samples, func(s Sample, _ int) string { return s.Label }))
	if len(distinct) < 2 {
		return nil, Evaluation{}, fmt.Errorf("%w: need at least 2 distinct labels, got %d",
			errors.ErrInsufficientData, len(distinct))
	}

	normalized := lo.Map(samples, func(s Sample, _ int) Sample {
		return Sample{Text: t.normalizer.Normalize(s.Text), Label: s.Label}
	})

	train, test := StratifiedSplit(normalized, t.opts.TestFraction, t.opts.Seed)
	t.log.Info("Dataset split", "train", len(train), "held_out", len(test))

	trainDocs := lo.Map(train, func(s Sample, _ int) string { return s.Text })
	trainLabels := lo.Map(train, func(s Sample, _ int) string { return s.Label })

	// Vocabulary and IDF weights come from the training partition only, so
	// the held-out evaluation is leak-free.
	vectorizer := ai.NewVectorizer(t.opts.MaxFeatures, t.opts.NgramMax)
	if err := vectorizer.Fit(trainDocs); err != nil {
		return nil, Evaluation{}, fmt.Errorf("vectorizer fit: %w", err)
	}
	t.log.Info("Vectorizer fitted", "features", vectorizer.Dimension())

	classifier := ai.NewBayes(t.opts.Alpha)
	if err := classifier.Fit(vectorizer.TransformAll(trainDocs), trainLabels, vectorizer.Dimension()); err != nil {
		return nil, Evaluation{}, fmt.Errorf("classifier fit: %w", err)
	}

	artifact := &ai.Artifact{
		Version:    uuid.New(),
		TrainedAt:  time.Now().UTC(),
		Vectorizer: vectorizer,
		Classifier: classifier,
	}

	truth := make([]string, len(test))
	predicted := make([]string, len(test))
	for i, s := range test {
		truth[i] = s.Label
		p, _ := artifact.Predict(s.Text)
		predicted[i] = p.Label
	}
	eval, err := Evaluate(truth, predicted, artifact.Labels())
	if err != nil {
		return nil, Evaluation{}, fmt.Errorf("held-out evaluation: %w", err)
	}
	t.log.Info("Held-out evaluation", "accuracy", eval.Accuracy, "held_out", eval.HeldOut)

	return artifact, eval, nil
}
