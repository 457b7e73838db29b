package retrieval_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sharda-atlas/internal/adapter/memstore"
	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
	"github.com/couchcryptid/sharda-atlas/internal/retrieval"
)

// reply is the scripted generator output for one region. A non-nil gate holds
// the call until it is closed.
type reply struct {
	text string
	err  error
	gate chan struct{}
}

type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   map[string]int
	params  []domain.GenerationParams
	started chan string
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		replies: map[string]reply{},
		calls:   map[string]int{},
		started: make(chan string, 16),
	}
}

func (f *fakeGenerator) set(region string, r reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[region] = r
}

func (f *fakeGenerator) callCount(region string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[region]
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, params domain.GenerationParams) (string, error) {
	f.mu.Lock()
	region := ""
	for name := range f.replies {
		if prompt == domain.BuildRegionPrompt(name) {
			region = name
			break
		}
	}
	f.calls[region]++
	f.params = append(f.params, params)
	r := f.replies[region]
	f.mu.Unlock()

	select {
	case f.started <- region:
	default:
	}
	if r.gate != nil {
		<-r.gate
	}
	if region == "" {
		return "", errors.New("unexpected prompt")
	}
	return r.text, r.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.RegionEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.RegionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

// brokenStore fails every read and write.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (domain.RegionRecord, bool, error) {
	return domain.RegionRecord{}, false, errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, domain.RegionRecord) error {
	return errors.New("connection refused")
}
func (brokenStore) Has(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}
func (brokenStore) CheckReadiness(context.Context) error { return errors.New("connection refused") }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	gen     *fakeGenerator
	store   *memstore.Store
	metrics *observability.Metrics
	svc     *retrieval.Service
}

func newHarness(t *testing.T, pub retrieval.Publisher) *harness {
	t.Helper()
	validator, err := domain.NewValidator(nil)
	require.NoError(t, err)

	h := &harness{
		gen:     newFakeGenerator(),
		store:   memstore.New(0),
		metrics: observability.NewMetricsForTesting(),
	}
	h.svc = retrieval.NewService(h.gen, h.store, validator, pub,
		domain.GenerationParams{Temperature: 0.4, MaxOutputTokens: 2048},
		discardLogger(), h.metrics)
	return h
}

func recordJSON(capital string) string {
	return `{"capital":"` + capital + `","population":"1 million","area":"100 sq km","languages":"Hindi",` +
		`"history":"Old and storied.","culture":"Festivals and crafts.","mainImage":"https://picsum.photos/800/400",` +
		`"highlights":[{"name":"Dance","image":"https://picsum.photos/300/200"}]}`
}
