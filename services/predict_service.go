package services

import (
	"log/slog"
	"math"
	"strings"

	"github.com/abadojack/whatlanggo"

	"udara-lab/ai"
	"udara-lab/domain"
	"udara-lab/errors"
	"udara-lab/nlp"
	"udara-lab/observability"
)

// PredictRequest carries the free-text answers of the analysis form. All
// fields are optional individually; their concatenation must be non-empty.
type PredictRequest struct {
	KondisiKabut      string `form:"kondisi_kabut" json:"kondisi_kabut"`
	KondisiBau        string `form:"kondisi_bau" json:"kondisi_bau"`
	KondisiPernapasan string `form:"kondisi_pernapasan" json:"kondisi_pernapasan"`
	Deskripsi         string `form:"deskripsi" json:"deskripsi"`
}

// PredictResult is the assembled answer for the web layer. Probabilities are
// percentages rounded to one decimal.
type PredictResult struct {
	Quality       string
	InputText     string
	ProcessedText string
	Probabilities map[string]float64
	Advisory      domain.Advisory
	HazardTerms   []string
	Language      string
}

// PredictService runs the serving path: concatenate, normalize, classify,
// decorate. The artifact is injected at construction and read-only
// afterwards; a nil artifact means the service reports "not ready" on every
// call.
type PredictService struct {
	log        *slog.Logger
	normalizer *nlp.Normalizer
	spotter    *nlp.HazardSpotter
	advisor    *AdvisoryService
	artifact   *ai.Artifact
	monitor    *observability.Monitor
}

func NewPredictService(
	log *slog.Logger,
	normalizer *nlp.Normalizer,
	spotter *nlp.HazardSpotter,
	advisor *AdvisoryService,
	artifact *ai.Artifact,
	monitor *observability.Monitor,
) *PredictService {
	return &PredictService{
		log:        log,
		normalizer: normalizer,
		spotter:    spotter,
		advisor:    advisor,
		artifact:   artifact,
		monitor:    monitor,
	}
}

// Ready reports whether a trained artifact has been loaded.
func (s *PredictService) Ready() bool {
	return s.artifact != nil
}

// Analyze classifies one report. Empty-after-trim input fails with
// ErrEmptyInput, a missing artifact with ErrArtifactUnavailable; no other
// error path exists.
func (s *PredictService) Analyze(req PredictRequest) (PredictResult, error) {
	s.monitor.IncrRequest()

	fields := []string{req.KondisiKabut, req.KondisiBau, req.KondisiPernapasan, req.Deskripsi}
	input := strings.Join(strings.Fields(strings.Join(fields, " ")), " ")
	if input == "" {
		s.monitor.IncrRejected()
		return PredictResult{}, errors.ErrEmptyInput
	}

	if s.artifact == nil {
		s.monitor.IncrFailure()
		return PredictResult{}, errors.ErrArtifactUnavailable
	}

	info := whatlanggo.Detect(input)
	lang := info.Lang.Iso6391()

	prediction, err := s.artifact.Predict(s.normalizer.Normalize(input))
	if err != nil {
		s.monitor.IncrFailure()
		return PredictResult{}, err
	}
	label := prediction.Label

	percentages := make(map[string]float64, len(prediction.Probabilities))
	for class, p := range prediction.Probabilities {
		percentages[class] = math.Round(p*1000) / 10
	}

	s.monitor.RecordPrediction(label)
	s.log.Info("Prediction served",
		"label", label,
		"lang", lang,
		"normalized", prediction.Normalized)

	return PredictResult{
		Quality:       label,
		InputText:     input,
		ProcessedText: prediction.Normalized,
		Probabilities: percentages,
		Advisory:      s.advisor.Advise(label),
		HazardTerms:   s.spotter.Spot(input),
		Language:      lang,
	}, nil
}
