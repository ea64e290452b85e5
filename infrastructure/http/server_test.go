package http

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"udara-lab/ai"
	"udara-lab/nlp"
	"udara-lab/observability"
	"udara-lab/services"
	"udara-lab/training"
)

func newTestServer(t *testing.T, withArtifact bool) *Server {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	var artifact *ai.Artifact
	if withArtifact {
		var samples []training.Sample
		for i := 0; i < 4; i++ {
			samples = append(samples,
				training.Sample{Text: "udara segar dan bersih", Label: "Baik"},
				training.Sample{Text: "asap tebal menyengat sesak", Label: "Tidak Sehat"},
			)
		}
		var err error
		artifact, _, err = training.NewTrainer(log, nlp.NewNormalizer(), training.Options{}).Fit(samples)
		req.NoError(err)
	}

	spotter, err := nlp.NewHazardSpotter(nlp.DefaultHazardTerms)
	req.NoError(err)
	advisor, err := services.NewAdvisoryService(log, rand.New(rand.NewSource(42)), "")
	req.NoError(err)
	monitor := observability.NewMonitor(log)
	service := services.NewPredictService(log, nlp.NewNormalizer(), spotter, advisor, artifact, monitor)

	return NewServer(log, service, monitor)
}

func postForm(t *testing.T, server *Server, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Predict(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, true)

	recorder := postForm(t, server, url.Values{
		"kondisi_kabut": {"tidak ada kabut"},
		"kondisi_bau":   {"udara segar"},
		"deskripsi":     {"langit cerah"},
	})
	req.Equal(http.StatusOK, recorder.Code)

	var body predictResponse
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	req.False(body.Error)
	req.Equal("Baik", body.Kualitas)
	req.NotEmpty(body.ProcessedText)
	req.Len(body.Probabilitas, 2)
	req.NotEmpty(body.Saran)
	req.NotEmpty(body.Deskripsi)
}

func TestServer_PredictEmptyInput(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, true)

	recorder := postForm(t, server, url.Values{})
	req.Equal(http.StatusBadRequest, recorder.Code)

	var body predictResponse
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	req.True(body.Error)
	req.Contains(body.Message, "minimal satu pertanyaan")
}

func TestServer_PredictWithoutModel(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, false)

	recorder := postForm(t, server, url.Values{"deskripsi": {"asap tebal"}})
	req.Equal(http.StatusServiceUnavailable, recorder.Code)

	var body predictResponse
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	req.True(body.Error)
	req.Contains(body.Message, "Model belum dimuat")
}

func TestServer_Health(t *testing.T) {
	req := require.New(t)

	t.Run("Should be ready with a model", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		newTestServer(t, true).Handler().
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
		req.Equal(http.StatusOK, recorder.Code)
	})

	t.Run("Should be not ready without a model", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		newTestServer(t, false).Handler().
			ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
		req.Equal(http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestServer_Metrics(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, true)

	postForm(t, server, url.Values{"deskripsi": {"udara segar"}})

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	req.Equal(http.StatusOK, recorder.Code)

	var stats observability.Stats
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &stats))
	req.Equal(uint64(1), stats.Requests)
	req.Equal(uint64(1), stats.ByLabel["Baik"])
}
