// Package app assembles the region services from configuration. Both the HTTP
// service and the CLI build their dependency graph here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/sharda-atlas/internal/adapter/gemini"
	kafkaadapter "github.com/couchcryptid/sharda-atlas/internal/adapter/kafka"
	"github.com/couchcryptid/sharda-atlas/internal/adapter/memstore"
	"github.com/couchcryptid/sharda-atlas/internal/adapter/redisstore"
	"github.com/couchcryptid/sharda-atlas/internal/config"
	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
	"github.com/couchcryptid/sharda-atlas/internal/retrieval"
	"github.com/couchcryptid/sharda-atlas/internal/studio"
)

// App holds the wired services and the resources they own.
type App struct {
	Regions *retrieval.Service
	Studio  *studio.Service
	Model   string

	closers []func() error
}

// Build wires the generator, record store, optional event publisher, and the
// services on top of them. Call Close when done.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	validator, err := domain.NewValidator(cfg.RegionRequiredFields)
	if err != nil {
		return nil, fmt.Errorf("region validator: %w", err)
	}

	generator, err := gemini.NewClient(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, logger, metrics)
	if err != nil {
		return nil, err
	}

	a := &App{Model: generator.Model()}

	var store domain.RecordStore
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		rs, err := redisstore.Dial(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		store = rs
		logger.Info("region cache backend: redis", "prefix", cfg.RedisKeyPrefix)
	default:
		store = memstore.New(cfg.RegionCacheSize)
		logger.Info("region cache backend: memory", "max_entries", cfg.RegionCacheSize)
	}

	var publisher retrieval.Publisher
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		a.closers = append(a.closers, w.Close)
		publisher = w
		logger.Info("region event publishing enabled", "topic", cfg.KafkaRegionTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("region event publishing disabled")
	}

	params := domain.GenerationParams{
		Temperature:     cfg.RegionTemperature,
		MaxOutputTokens: cfg.RegionMaxOutputTokens,
		Structured:      cfg.GeminiStructuredOutput,
	}
	a.Regions = retrieval.NewService(generator, store, validator, publisher, params, logger, metrics)
	a.Studio = studio.NewService(generator, logger, metrics)

	logger.Info("region services ready",
		"model", a.Model,
		"required_fields", validator.RequiredFields(),
		"structured_output", cfg.GeminiStructuredOutput,
	)
	return a, nil
}

// Close releases the store and publisher connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
