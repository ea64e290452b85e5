// Package repositories persists the trained artifact in BadgerDB. The
// vectorizer and classifier blobs are co-dependent, so they are written in a
// single transaction and only ever loaded as a pair.
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"udara-lab/ai"
	"udara-lab/errors"
)

const (
	vectorizerKey = "artifact:vectorizer"
	classifierKey = "artifact:classifier"
	metaKey       = "artifact:meta"
)

type artifactMeta struct {
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
}

type ArtifactRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewArtifactRepository(db *badger.DB, log *slog.Logger) *ArtifactRepository {
	return &ArtifactRepository{db: db, log: log}
}

// Store serializes the fitted pair and its metadata atomically. A reader
// never observes a vectorizer without its matching classifier.
func (r *ArtifactRepository) Store(artifact *ai.Artifact) error {
	if artifact == nil || artifact.Vectorizer == nil || artifact.Classifier == nil {
		return errors.ErrArtifactUnavailable
	}

	vecRaw, err := json.Marshal(artifact.Vectorizer)
	if err != nil {
		return fmt.Errorf("vectorizer marshal: %w", err)
	}
	clfRaw, err := json.Marshal(artifact.Classifier)
	if err != nil {
		return fmt.Errorf("classifier marshal: %w", err)
	}
	metaRaw, err := json.Marshal(artifactMeta{
		Version:   artifact.Version.String(),
		TrainedAt: artifact.TrainedAt,
	})
	if err != nil {
		return fmt.Errorf("meta marshal: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(vectorizerKey), vecRaw); err != nil {
			return err
		}
		if err := txn.Set([]byte(classifierKey), clfRaw); err != nil {
			return err
		}
		return txn.Set([]byte(metaKey), metaRaw)
	})
	if err != nil {
		return err
	}

	r.log.Info("Artifact stored",
		"version", artifact.Version,
		"features", artifact.Vectorizer.Dimension(),
		"labels", artifact.Classifier.Classes)
	return nil
}

// Load reads the persisted pair back. Any missing or corrupt half yields
// ErrArtifactUnavailable; a mismatched pair (classifier dimension differing
// from the vocabulary size) is rejected the same way.
func (r *ArtifactRepository) Load() (*ai.Artifact, error) {
	var vecRaw, clfRaw, metaRaw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		if vecRaw, err = readValue(txn, vectorizerKey); err != nil {
			return err
		}
		if clfRaw, err = readValue(txn, classifierKey); err != nil {
			return err
		}
		metaRaw, err = readValue(txn, metaKey)
		return err
	})
	if err != nil {
		return nil, err
	}

	var vectorizer ai.Vectorizer
	if err := json.Unmarshal(vecRaw, &vectorizer); err != nil {
		return nil, fmt.Errorf("%w: corrupt vectorizer blob: %v", errors.ErrArtifactUnavailable, err)
	}
	var classifier ai.Bayes
	if err := json.Unmarshal(clfRaw, &classifier); err != nil {
		return nil, fmt.Errorf("%w: corrupt classifier blob: %v", errors.ErrArtifactUnavailable, err)
	}
	var meta artifactMeta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact meta: %v", errors.ErrArtifactUnavailable, err)
	}

	// A blob can be valid JSON and still not be a fitted classifier; an
	// inconsistent one would panic on the first prediction.
	if len(classifier.Classes) == 0 {
		return nil, fmt.Errorf("%w: classifier blob has no classes", errors.ErrArtifactUnavailable)
	}
	if len(classifier.ClassLogPrior) != len(classifier.Classes) ||
		len(classifier.FeatureLogProb) != len(classifier.Classes) {
		return nil, fmt.Errorf("%w: classifier blob is internally inconsistent",
			errors.ErrArtifactUnavailable)
	}
	for _, row := range classifier.FeatureLogProb {
		if len(row) != vectorizer.Dimension() {
			return nil, fmt.Errorf("%w: classifier/vectorizer dimension mismatch",
				errors.ErrArtifactUnavailable)
		}
	}

	version, err := uuid.Parse(meta.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact version: %v", errors.ErrArtifactUnavailable, err)
	}

	artifact := &ai.Artifact{
		Version:    version,
		TrainedAt:  meta.TrainedAt,
		Vectorizer: &vectorizer,
		Classifier: &classifier,
	}
	r.log.Info("Artifact loaded",
		"version", artifact.Version,
		"trained_at", artifact.TrainedAt,
		"labels", classifier.Classes)
	return artifact, nil
}

func readValue(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("%w: missing %s", errors.ErrArtifactUnavailable, key)
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}
