package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"udara-lab/ai"
	"udara-lab/internal"
	"udara-lab/nlp"
	"udara-lab/observability"
	"udara-lab/repositories"
	"udara-lab/services"

	httpserver "udara-lab/infrastructure/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so every
// defer fires before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Artifact loading. A missing or corrupt artifact degrades to a
	// serving "not ready" state instead of refusing to boot.
	var artifact *ai.Artifact
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Warn("Artifact store unavailable, serving without a model", "err", err)
	} else {
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		repo := repositories.NewArtifactRepository(db, log)
		if artifact, err = repo.Load(); err != nil {
			log.Warn("No usable artifact, run the trainer first", "err", err)
			artifact = nil
		}
	}

	// 3. Serving components
	monitor := observability.NewMonitor(log)
	normalizer := nlp.NewNormalizer()
	spotter, err := nlp.NewHazardSpotter(config.HazardTermList(nlp.DefaultHazardTerms))
	if err != nil {
		return fmt.Errorf("hazard spotter: %w", err)
	}
	advisor, err := services.NewAdvisoryService(
		log,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		config.AdvisoryPath,
	)
	if err != nil {
		return err
	}
	service := services.NewPredictService(log, normalizer, spotter, advisor, artifact, monitor)

	// 4. HTTP server with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:    address,
		Handler: httpserver.NewServer(log, service, monitor).Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "ready", service.Ready())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}
