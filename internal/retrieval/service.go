package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
)

// Publisher announces freshly generated records.
type Publisher interface {
	Publish(ctx context.Context, event domain.RegionEvent) error
}

// readinessChecker is implemented by stores backed by an external service.
type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Service retrieves region records: cache first, then one generation call per
// region no matter how many callers ask at once.
type Service struct {
	generator domain.Generator
	store     domain.RecordStore
	validator *domain.Validator
	publisher Publisher
	params    domain.GenerationParams
	group     singleflight.Group
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service. Pass a nil publisher to disable event publication.
func NewService(
	generator domain.Generator,
	store domain.RecordStore,
	validator *domain.Validator,
	publisher Publisher,
	params domain.GenerationParams,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		generator: generator,
		store:     store,
		validator: validator,
		publisher: publisher,
		params:    params,
		logger:    logger,
		metrics:   metrics,
	}
}

// Cached returns the stored record for name without generating. Store errors
// are logged and reported as a miss.
func (s *Service) Cached(ctx context.Context, name string) (domain.RegionRecord, bool) {
	if name == "" {
		return domain.RegionRecord{}, false
	}
	rec, ok, err := s.store.Get(ctx, name)
	if err != nil {
		s.logger.Warn("region cache read failed", "region", name, "error", err)
		return domain.RegionRecord{}, false
	}
	if ok {
		s.metrics.RegionCache.WithLabelValues("hit").Inc()
	}
	return rec, ok
}

// Retrieve returns the record for name, generating and caching it on a miss.
// Concurrent calls for the same name share a single generation. If ctx ends
// first, Retrieve returns ctx.Err() while the shared generation runs to
// completion and still populates the cache.
func (s *Service) Retrieve(ctx context.Context, name string) (domain.RegionRecord, error) {
	if name == "" {
		s.metrics.RegionRequests.WithLabelValues(domain.FailureKind(domain.ErrEmptyRegion)).Inc()
		return domain.RegionRecord{}, domain.ErrEmptyRegion
	}

	if rec, ok := s.Cached(ctx, name); ok {
		s.metrics.RegionRequests.WithLabelValues("success").Inc()
		return rec, nil
	}
	// Only the caller that starts the flight runs its closure. The write is
	// ordered before the result is delivered on ch.
	leader := false
	ch := s.group.DoChan(name, func() (any, error) {
		leader = true
		return s.generate(context.WithoutCancel(ctx), name)
	})
	// Counted once the caller is attached to the flight.
	s.metrics.RegionCache.WithLabelValues("miss").Inc()

	select {
	case <-ctx.Done():
		return domain.RegionRecord{}, ctx.Err()
	case res := <-ch:
		if !leader {
			s.metrics.InflightShared.Inc()
		}
		if res.Err != nil {
			s.metrics.RegionRequests.WithLabelValues(domain.FailureKind(res.Err)).Inc()
			s.logger.Warn("region retrieval failed",
				"region", name,
				"kind", domain.FailureKind(res.Err),
				"error", res.Err,
			)
			return domain.RegionRecord{}, res.Err
		}
		s.metrics.RegionRequests.WithLabelValues("success").Inc()
		return res.Val.(domain.RegionRecord), nil
	}
}

// generate runs prompt → generation → extraction → validation and stores the
// result. The cache is left untouched on any failure.
func (s *Service) generate(ctx context.Context, name string) (domain.RegionRecord, error) {
	// A flight that finished between the caller's miss and this one already stored it.
	if rec, ok, err := s.store.Get(ctx, name); err == nil && ok {
		return rec, nil
	}

	raw, err := s.generator.Generate(ctx, domain.BuildRegionPrompt(name), s.params)
	if err != nil {
		if !errors.Is(err, domain.ErrGeneration) {
			err = fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}
		return domain.RegionRecord{}, err
	}

	obj, err := domain.ExtractObject(raw)
	if err != nil {
		return domain.RegionRecord{}, err
	}

	rec, err := s.validator.Validate(obj)
	if err != nil {
		return domain.RegionRecord{}, err
	}

	if err := s.store.Set(ctx, name, rec); err != nil {
		s.logger.Warn("region cache write failed", "region", name, "error", err)
	}
	s.logger.Info("region record generated", "region", name, "highlights", len(rec.Highlights))

	s.publish(ctx, name, rec)
	return rec, nil
}

func (s *Service) publish(ctx context.Context, name string, rec domain.RegionRecord) {
	if s.publisher == nil {
		return
	}
	event := domain.NewRegionEvent(name, rec)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.RegionEventsPublish.WithLabelValues("error").Inc()
		s.logger.Warn("region event publish failed", "region", name, "event_id", event.ID, "error", err)
		return
	}
	s.metrics.RegionEventsPublish.WithLabelValues("success").Inc()
}

// CheckReadiness reports whether the backing store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if rc, ok := s.store.(readinessChecker); ok {
		if err := rc.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("region store not ready: %w", err)
		}
	}
	return nil
}
