package main

import (
	"fmt"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"udara-lab/internal"
	"udara-lab/nlp"
	"udara-lab/repositories"
	"udara-lab/training"
)

func main() {
	if err := run(); err != nil {
		color.Red.Printf("Training failed: %v\n", err)
		os.Exit(1)
	}
}

// run is the one-shot offline training batch: load dataset, fit, evaluate,
// persist. It never runs concurrently with serving.
func run() error {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	color.Bold.Println("Pelatihan Model Kualitas Udara (TF-IDF + Naive Bayes)")

	samples, err := training.LoadDataset(config.DatasetPath, log)
	if err != nil {
		return err
	}

	trainer := training.NewTrainer(log, nlp.NewNormalizer(), training.Options{
		TestFraction: config.TestFraction,
		Seed:         config.SplitSeed,
		MaxFeatures:  config.MaxFeatures,
		NgramMax:     config.NgramMax,
		Alpha:        config.SmoothingAlpha,
	})

	artifact, eval, err := trainer.Fit(samples)
	if err != nil {
		return err
	}
	eval.Render(os.Stdout)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := repositories.NewArtifactRepository(db, log).Store(artifact); err != nil {
		return err
	}

	color.Green.Printf("Model tersimpan (version %s, akurasi %.2f%%)\n",
		artifact.Version, eval.Accuracy*100)
	return nil
}
