// Package http exposes the prediction service over a JSON API. Thin glue:
// all decisions live in the services layer.
package http

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"udara-lab/errors"
	"udara-lab/observability"
	"udara-lab/services"
)

type Server struct {
	log     *slog.Logger
	service *services.PredictService
	monitor *observability.Monitor
	engine  *gin.Engine
}

func NewServer(log *slog.Logger, service *services.PredictService, monitor *observability.Monitor) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{log: log, service: service, monitor: monitor, engine: engine}
	engine.POST("/predict", s.predict)
	engine.GET("/health", s.health)
	engine.GET("/metrics", s.metrics)
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type predictResponse struct {
	Error         bool               `json:"error"`
	Message       string             `json:"message,omitempty"`
	Kualitas      string             `json:"kualitas,omitempty"`
	InputText     string             `json:"input_text,omitempty"`
	ProcessedText string             `json:"processed_text,omitempty"`
	Probabilitas  map[string]float64 `json:"probabilitas,omitempty"`
	Saran         []string           `json:"saran,omitempty"`
	Deskripsi     string             `json:"deskripsi,omitempty"`
	Warna         string             `json:"warna,omitempty"`
	Icon          string             `json:"icon,omitempty"`
	KataBahaya    []string           `json:"kata_bahaya,omitempty"`
	Bahasa        string             `json:"bahasa,omitempty"`
}

func (s *Server) predict(c *gin.Context) {
	var req services.PredictRequest
	// Binding failures fall through to the empty-input rejection below.
	_ = c.ShouldBind(&req)

	result, err := s.service.Analyze(req)
	switch {
	case stderrors.Is(err, errors.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, predictResponse{
			Error:   true,
			Message: "Silakan isi minimal satu pertanyaan.",
		})
		return
	case stderrors.Is(err, errors.ErrArtifactUnavailable):
		c.JSON(http.StatusServiceUnavailable, predictResponse{
			Error:   true,
			Message: "Model belum dimuat. Jalankan training terlebih dahulu.",
		})
		return
	case err != nil:
		s.log.Error("Prediction failed", "err", err)
		c.JSON(http.StatusInternalServerError, predictResponse{
			Error:   true,
			Message: "Terjadi kesalahan internal.",
		})
		return
	}

	c.JSON(http.StatusOK, predictResponse{
		Error:         false,
		Kualitas:      result.Quality,
		InputText:     result.InputText,
		ProcessedText: result.ProcessedText,
		Probabilitas:  result.Probabilities,
		Saran:         result.Advisory.Suggestions,
		Deskripsi:     result.Advisory.Description,
		Warna:         result.Advisory.Color,
		Icon:          result.Advisory.Icon,
		KataBahaya:    result.HazardTerms,
		Bahasa:        result.Language,
	})
}

func (s *Server) health(c *gin.Context) {
	if !s.service.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) metrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshot())
}
