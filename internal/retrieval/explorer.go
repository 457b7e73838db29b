package retrieval

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
)

// State is the display state of one explorer.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is what a client renders. Record is set only in StateSuccess and
// Err only in StateError; both always belong to Region.
type Snapshot struct {
	State      State
	Region     string
	Record     domain.RegionRecord
	Err        error
	Generation uint64
}

// Retriever is the part of Service an Explorer drives.
type Retriever interface {
	Cached(ctx context.Context, name string) (domain.RegionRecord, bool)
	Retrieve(ctx context.Context, name string) (domain.RegionRecord, error)
}

// Explorer tracks one client's region selection. Every Select or Deselect
// bumps a generation counter; a retrieval whose generation is no longer
// current when it resolves is dropped, so a superseded region never replaces
// the current one.
type Explorer struct {
	retriever Retriever
	logger    *slog.Logger
	metrics   *observability.Metrics
	onChange  func(Snapshot)

	mu         sync.Mutex
	snap       Snapshot
	generation uint64
	pending    sync.WaitGroup
}

// ExplorerOption configures an Explorer.
type ExplorerOption func(*Explorer)

// WithOnChange registers fn to observe every committed snapshot, in commit
// order. fn runs with the explorer locked and must not call back into it.
func WithOnChange(fn func(Snapshot)) ExplorerOption {
	return func(e *Explorer) { e.onChange = fn }
}

// NewExplorer creates an Explorer in StateIdle.
func NewExplorer(r Retriever, logger *slog.Logger, metrics *observability.Metrics, opts ...ExplorerOption) *Explorer {
	e := &Explorer{
		retriever: r,
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select makes name the current region. A cached record moves straight to
// StateSuccess without passing through StateLoading; otherwise the explorer
// enters StateLoading and resolves in the background. An empty name deselects.
func (e *Explorer) Select(ctx context.Context, name string) {
	if name == "" {
		e.Deselect()
		return
	}

	if rec, ok := e.retriever.Cached(ctx, name); ok {
		e.mu.Lock()
		e.generation++
		e.commit(Snapshot{State: StateSuccess, Region: name, Record: rec, Generation: e.generation})
		e.mu.Unlock()
		return
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.commit(Snapshot{State: StateLoading, Region: name, Generation: gen})
	e.pending.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.pending.Done()
		rec, err := e.retriever.Retrieve(ctx, name)
		e.resolve(gen, name, rec, err)
	}()
}

// Deselect returns to StateIdle immediately. Pending retrievals still finish
// and fill the cache, but their results are not shown.
func (e *Explorer) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.commit(Snapshot{State: StateIdle, Generation: e.generation})
}

// Snapshot returns the current state.
func (e *Explorer) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Wait blocks until every retrieval started by Select has resolved.
func (e *Explorer) Wait() {
	e.pending.Wait()
}

func (e *Explorer) resolve(gen uint64, name string, rec domain.RegionRecord, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.metrics.StaleResults.Inc()
		e.logger.Debug("discarding stale region result",
			"region", name,
			"generation", gen,
			"current_generation", e.generation,
		)
		return
	}

	if err != nil {
		e.commit(Snapshot{State: StateError, Region: name, Err: err, Generation: gen})
		return
	}
	e.commit(Snapshot{State: StateSuccess, Region: name, Record: rec, Generation: gen})
}

// commit must be called with e.mu held.
func (e *Explorer) commit(s Snapshot) {
	e.snap = s
	if e.onChange != nil {
		e.onChange(s)
	}
}
