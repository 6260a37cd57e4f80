package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/aidj/backend/internal/adapters/badgerstore"
	"github.com/ewilliams-labs/aidj/backend/internal/adapters/docstore"
	"github.com/ewilliams-labs/aidj/backend/internal/adapters/spotify"
	"github.com/ewilliams-labs/aidj/backend/internal/adapters/sqlite"
	"github.com/ewilliams-labs/aidj/backend/internal/config"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
	"github.com/ewilliams-labs/aidj/backend/internal/core/services"
	"github.com/ewilliams-labs/aidj/backend/internal/logging"
	"github.com/ewilliams-labs/aidj/backend/internal/worker"
)

// app holds the wired core and everything that must be released on exit.
type app struct {
	svc     *services.Orchestrator
	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// openDocumentStore selects the storage driver.
func openDocumentStore(cfg config.StorageConfig) (ports.DocumentStore, func() error, error) {
	switch cfg.Driver {
	case config.DriverFile:
		s, err := docstore.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case config.DriverSQLite:
		a, err := sqlite.NewAdapter(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return a, a.Close, nil
	case config.DriverBadger:
		s, err := badgerstore.Open(cfg.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

// newApp wires driven adapters into the core services.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.RequireSpotify(); err != nil {
		return nil, err
	}
	a := &app{}

	// -- Storage
	docs, closeDocs, err := openDocumentStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeDocs)

	var profiles ports.ProfileStore = docstore.NewProfileRepository(docs)
	if cfg.Worker.Workers > 0 {
		pool := worker.NewPool(profiles, cfg.Worker.Workers, cfg.Worker.QueueSize)
		pool.Start()
		// Registered after the store, so pending saves drain before it closes.
		a.closers = append(a.closers, func() error { pool.Stop(); return nil })
		profiles = pool
	}

	// -- Spotify Adapter
	httpClient, err := spotify.NewAuthenticatedHTTPClient(ctx, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.TokenURL, cfg.Spotify.Timeout)
	if err != nil {
		a.Close()
		return nil, err
	}
	catalog := spotify.NewClient(httpClient, spotify.Config{
		BaseURL:           cfg.Spotify.BaseURL,
		Market:            cfg.Spotify.Market,
		MaxRetries:        cfg.Spotify.MaxRetries,
		RetryBackoff:      cfg.Spotify.RetryBackoff,
		RequestsPerSecond: cfg.Spotify.RequestsPerSecond,
		Burst:             cfg.Spotify.Burst,
	})

	// -- Core
	gateway := services.NewGateway(catalog, docs, services.BreakerConfig{
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	})
	recommender, err := services.NewRecommender(profiles, services.RecommenderConfig{
		LearningRate:   cfg.Recommender.LearningRate,
		Exploration:    cfg.Recommender.Exploration,
		ValueTableSize: cfg.Recommender.ValueTableSize,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.svc = services.NewOrchestrator(gateway, recommender)

	logging.Info().
		Str("storage", cfg.Storage.Driver).
		Int("workers", cfg.Worker.Workers).
		Float64("exploration", cfg.Recommender.Exploration).
		Msg("aidj: services wired")
	return a, nil
}
