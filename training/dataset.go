// Package training hosts the one-shot offline batch that fits the TF-IDF
// vectorizer and the naive Bayes classifier on a labeled dataset, evaluates
// them on a held-out partition, and hands the fitted pair to the artifact
// store.
package training

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

const (
	textColumn  = "jawaban_user"
	labelColumn = "label_kualitas"
)

// Sample is one labeled row of the training dataset.
type Sample struct {
	Text  string
	Label string
}

// LoadDataset reads the labeled CSV. The file must carry the free-text and
// label columns by name; column order is irrelevant. The file type is
// sniffed first so a stray binary does not reach the CSV parser.
func LoadDataset(path string, log *slog.Logger) ([]Sample, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset sniffing failed: %w", err)
	}
	if !mtype.Is("text/csv") && !mtype.Is("text/plain") && !mtype.Is("text/utf8") {
		return nil, fmt.Errorf("dataset %s has unexpected type %s", path, mtype.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset header: %w", err)
	}

	textIdx, labelIdx := -1, -1
	for i, name := range header {
		switch name {
		case textColumn:
			textIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 || labelIdx < 0 {
		return nil, fmt.Errorf("dataset must contain %q and %q columns", textColumn, labelColumn)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset rows: %w", err)
	}

	samples := make([]Sample, 0, len(records))
	distribution := make(map[string]int)
	for _, record := range records {
		sample := Sample{Text: record[textIdx], Label: record[labelIdx]}
		samples = append(samples, sample)
		distribution[sample.Label]++
	}

	log.Info("Dataset loaded", "path", path, "samples", len(samples), "labels", distribution)
	return samples, nil
}
