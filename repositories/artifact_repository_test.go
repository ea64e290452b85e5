package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"udara-lab/ai"
	"udara-lab/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fittedArtifact(t *testing.T) *ai.Artifact {
	t.Helper()
	req := require.New(t)

	docs := []string{"udara segar bersih", "asap tebal sesak", "kabut debu tipis"}
	labels := []string{"Baik", "Tidak Sehat", "Sedang"}

	vectorizer := ai.NewVectorizer(1000, 2)
	req.NoError(vectorizer.Fit(docs))
	classifier := ai.NewBayes(1.0)
	req.NoError(classifier.Fit(vectorizer.TransformAll(docs), labels, vectorizer.Dimension()))

	return &ai.Artifact{
		Version:    uuid.New(),
		TrainedAt:  time.Now().UTC().Truncate(time.Second),
		Vectorizer: vectorizer,
		Classifier: classifier,
	}
}

func TestArtifactRepository_RoundTrip(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repo := NewArtifactRepository(openTestDB(t), log)

	original := fittedArtifact(t)
	req.NoError(repo.Store(original))

	loaded, err := repo.Load()
	req.NoError(err)
	req.Equal(original.Version, loaded.Version)
	req.True(original.TrainedAt.Equal(loaded.TrainedAt))
	req.Equal(original.Labels(), loaded.Labels())

	// Round-trip fidelity: the reloaded pair reproduces identical
	// predictions, bit for bit.
	for _, text := range []string{"udara segar", "asap sesak", "tidak dikenal"} {
		want, err := original.Predict(text)
		req.NoError(err)
		got, err := loaded.Predict(text)
		req.NoError(err)
		req.Equal(want, got)
	}
}

func TestArtifactRepository_LoadGuards(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		description string
		prepare     func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository)
	}{
		{
			"Should fail on an empty store",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {},
		},
		{
			"Should fail when the classifier half is missing",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {
				req.NoError(repo.Store(fittedArtifact(t)))
				req.NoError(db.Update(func(txn *badger.Txn) error {
					return txn.Delete([]byte(classifierKey))
				}))
			},
		},
		{
			"Should fail when the vectorizer half is missing",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {
				req.NoError(repo.Store(fittedArtifact(t)))
				req.NoError(db.Update(func(txn *badger.Txn) error {
					return txn.Delete([]byte(vectorizerKey))
				}))
			},
		},
		{
			"Should fail on a corrupt blob",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {
				req.NoError(repo.Store(fittedArtifact(t)))
				req.NoError(db.Update(func(txn *badger.Txn) error {
					return txn.Set([]byte(classifierKey), []byte("not json"))
				}))
			},
		},
		{
			"Should fail on an empty classifier blob",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {
				req.NoError(repo.Store(fittedArtifact(t)))
				// Valid JSON, but no classes and no parameters; loading it
				// would make the first prediction panic.
				req.NoError(db.Update(func(txn *badger.Txn) error {
					return txn.Set([]byte(classifierKey), []byte("{}"))
				}))
			},
		},
		{
			"Should fail on a classifier blob with skewed parameters",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {
				artifact := fittedArtifact(t)
				req.NoError(repo.Store(artifact))

				// Two classes but priors and likelihoods for only one.
				skewed := []byte(`{"classes":["Baik","Sedang"],"class_log_prior":[0],"feature_log_prob":[[]],"alpha":1}`)
				req.NoError(db.Update(func(txn *badger.Txn) error {
					return txn.Set([]byte(classifierKey), skewed)
				}))
			},
		},
		{
			"Should fail on a mismatched pair",
			func(req *require.Assertions, db *badger.DB, repo *ArtifactRepository) {
				artifact := fittedArtifact(t)
				req.NoError(repo.Store(artifact))

				// Overwrite the vectorizer with one of another dimension.
				other := ai.NewVectorizer(1000, 1)
				req.NoError(other.Fit([]string{"kata tunggal"}))
				req.NoError(repo.Store(&ai.Artifact{
					Version:    artifact.Version,
					TrainedAt:  artifact.TrainedAt,
					Vectorizer: other,
					Classifier: artifact.Classifier,
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			db := openTestDB(t)
			repo := NewArtifactRepository(db, log)

			tt.prepare(req, db, repo)

			_, err := repo.Load()
			req.ErrorIs(err, errors.ErrArtifactUnavailable, tt.description)
		})
	}
}

func TestArtifactRepository_StoreGuards(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repo := NewArtifactRepository(openTestDB(t), log)

	req.ErrorIs(repo.Store(nil), errors.ErrArtifactUnavailable)
	req.ErrorIs(repo.Store(&ai.Artifact{Vectorizer: ai.NewVectorizer(10, 1)}),
		errors.ErrArtifactUnavailable)
}
