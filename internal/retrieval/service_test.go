package retrieval_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
	"github.com/couchcryptid/sharda-atlas/internal/retrieval"
)

func TestRetrieve_RepeatedCallsGenerateOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.set("Rajasthan", reply{text: recordJSON("Jaipur")})
	ctx := context.Background()

	first, err := h.svc.Retrieve(ctx, "Rajasthan")
	require.NoError(t, err)

	for range 3 {
		again, err := h.svc.Retrieve(ctx, "Rajasthan")
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("cached record differs (-first +again):\n%s", diff)
		}
	}

	assert.Equal(t, 1, h.gen.callCount("Rajasthan"))
	assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.RegionCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RegionCache.WithLabelValues("miss")))
	assert.Zero(t, testutil.ToFloat64(h.metrics.InflightShared), "a lone caller leads its own flight")
	assert.Equal(t, 4.0, testutil.ToFloat64(h.metrics.RegionRequests.WithLabelValues("success")))
}

func TestRetrieve_SendsConfiguredParams(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.set("Bihar", reply{text: recordJSON("Patna")})

	_, err := h.svc.Retrieve(context.Background(), "Bihar")
	require.NoError(t, err)

	require.Len(t, h.gen.params, 1)
	assert.Equal(t, domain.GenerationParams{Temperature: 0.4, MaxOutputTokens: 2048}, h.gen.params[0])
}

func TestRetrieve_FencedOutput(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.set("Kerala", reply{
		text: "Sure! ```" + `{"capital":"Thiruvananthapuram","history":"...","culture":"...","highlights":[]}` + "```",
	})
	ctx := context.Background()

	rec, err := h.svc.Retrieve(ctx, "Kerala")
	require.NoError(t, err)
	assert.Equal(t, "Thiruvananthapuram", rec.Capital)

	cached, ok, err := h.store.Get(ctx, "Kerala")
	require.NoError(t, err)
	require.True(t, ok, "cache must be populated")
	assert.Equal(t, rec, cached)
}

func TestRetrieve_FailuresLeaveCacheUntouched(t *testing.T) {
	tests := []struct {
		name  string
		reply reply
		want  error
		kind  string
	}{
		{"refusal text", reply{text: "I cannot provide information."}, domain.ErrExtraction, "extraction"},
		{"broken json", reply{text: `{"capital": "x",,}`}, domain.ErrParse, "parse"},
		{"missing culture", reply{text: `{"capital":"x","history":"y"}`}, domain.ErrValidation, "validation"},
		{"empty fallback", reply{text: "{}"}, domain.ErrValidation, "validation"},
		{"service error", reply{err: fmt.Errorf("%w: quota", domain.ErrGeneration)}, domain.ErrGeneration, "generation"},
		{"unwrapped error", reply{err: errors.New("dial tcp: timeout")}, domain.ErrGeneration, "generation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.gen.set("Atlantis", tt.reply)
			ctx := context.Background()

			_, err := h.svc.Retrieve(ctx, "Atlantis")
			require.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsRetrievalFailure(err))
			assert.Equal(t, tt.kind, domain.FailureKind(err))

			has, err := h.store.Has(ctx, "Atlantis")
			require.NoError(t, err)
			assert.False(t, has)
			assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RegionRequests.WithLabelValues(tt.kind)))
		})
	}
}

func TestRetrieve_NoAutomaticRetry(t *testing.T) {
	h := newHarness(t, nil)
	h.gen.set("Sikkim", reply{text: "Sorry, try later."})
	ctx := context.Background()

	_, err := h.svc.Retrieve(ctx, "Sikkim")
	require.ErrorIs(t, err, domain.ErrExtraction)
	assert.Equal(t, 1, h.gen.callCount("Sikkim"))

	// Re-selecting triggers a fresh attempt.
	h.gen.set("Sikkim", reply{text: recordJSON("Gangtok")})
	rec, err := h.svc.Retrieve(ctx, "Sikkim")
	require.NoError(t, err)
	assert.Equal(t, "Gangtok", rec.Capital)
	assert.Equal(t, 2, h.gen.callCount("Sikkim"))
}

func TestRetrieve_EmptyName(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Retrieve(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrEmptyRegion)
	assert.Empty(t, h.gen.params)
}

func TestRetrieve_ConcurrentSameRegionShareOneCall(t *testing.T) {
	h := newHarness(t, nil)
	gate := make(chan struct{})
	h.gen.set("Gujarat", reply{text: recordJSON("Gandhinagar"), gate: gate})
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]domain.RegionRecord, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = h.svc.Retrieve(ctx, "Gujarat")
		}()
	}

	select {
	case <-h.gen.started:
	case <-time.After(2 * time.Second):
		t.Fatal("generation never started")
	}
	// A miss is counted only after the caller joined the flight.
	misses := h.metrics.RegionCache.WithLabelValues("miss")
	require.Eventually(t, func() bool { return testutil.ToFloat64(misses) == 2 },
		2*time.Second, time.Millisecond, "second caller never joined the pending generation")
	close(gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, "Gandhinagar", results[0].Capital)
	assert.Equal(t, 1, h.gen.callCount("Gujarat"))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.InflightShared))
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.RegionCache.WithLabelValues("hit")))
}

func TestRetrieve_CallerCancelStillPopulatesCache(t *testing.T) {
	h := newHarness(t, nil)
	gate := make(chan struct{})
	h.gen.set("Assam", reply{text: recordJSON("Dispur"), gate: gate})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := h.svc.Retrieve(ctx, "Assam")
		errCh <- err
	}()

	<-h.gen.started
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(gate)
	assert.Eventually(t, func() bool {
		ok, _ := h.store.Has(context.Background(), "Assam")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	rec, err := h.svc.Retrieve(context.Background(), "Assam")
	require.NoError(t, err)
	assert.Equal(t, "Dispur", rec.Capital)
	assert.Equal(t, 1, h.gen.callCount("Assam"))
}

func TestRetrieve_PublishesGeneratedRecords(t *testing.T) {
	pub := &fakePublisher{}
	h := newHarness(t, pub)
	h.gen.set("Punjab", reply{text: recordJSON("Chandigarh")})
	ctx := context.Background()

	_, err := h.svc.Retrieve(ctx, "Punjab")
	require.NoError(t, err)
	_, err = h.svc.Retrieve(ctx, "Punjab")
	require.NoError(t, err)

	require.Len(t, pub.events, 1, "cache hits are not published")
	assert.Equal(t, "Punjab", pub.events[0].Region)
	assert.Equal(t, "Chandigarh", pub.events[0].Record.Capital)
	assert.NotEmpty(t, pub.events[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RegionEventsPublish.WithLabelValues("success")))
}

func TestRetrieve_PublishFailureDoesNotFailRetrieval(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	h := newHarness(t, pub)
	h.gen.set("Punjab", reply{text: recordJSON("Chandigarh")})

	rec, err := h.svc.Retrieve(context.Background(), "Punjab")
	require.NoError(t, err)
	assert.Equal(t, "Chandigarh", rec.Capital)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RegionEventsPublish.WithLabelValues("error")))
}

func TestRetrieve_StoreErrorsDegradeToGeneration(t *testing.T) {
	gen := newFakeGenerator()
	gen.set("Goa", reply{text: recordJSON("Panaji")})
	validator, err := domain.NewValidator(nil)
	require.NoError(t, err)
	svc := retrieval.NewService(gen, brokenStore{}, validator, nil, domain.GenerationParams{},
		discardLogger(), observability.NewMetricsForTesting())

	rec, err := svc.Retrieve(context.Background(), "Goa")
	require.NoError(t, err)
	assert.Equal(t, "Panaji", rec.Capital)

	err = svc.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCheckReadiness_MemoryStore(t *testing.T) {
	h := newHarness(t, nil)
	assert.NoError(t, h.svc.CheckReadiness(context.Background()))
}
