package memstore

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

// Store is an in-memory domain.RecordStore. With maxEntries <= 0 it grows
// without bound; otherwise the least recently used record is evicted.
type Store struct {
	maxEntries int

	mu      sync.Mutex
	records map[string]*list.Element
	recency *list.List // front is most recently used
}

type cached struct {
	name   string
	record domain.RegionRecord
}

// New creates an empty Store.
func New(maxEntries int) *Store {
	return &Store{
		maxEntries: maxEntries,
		records:    make(map[string]*list.Element),
		recency:    list.New(),
	}
}

func (s *Store) Get(_ context.Context, name string) (domain.RegionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.records[name]
	if !ok {
		return domain.RegionRecord{}, false, nil
	}
	s.recency.MoveToFront(el)
	return el.Value.(*cached).record, true, nil
}

// Set stores record under name; the last write wins.
func (s *Store) Set(_ context.Context, name string, record domain.RegionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.records[name]; ok {
		el.Value.(*cached).record = record
		s.recency.MoveToFront(el)
		return nil
	}

	s.records[name] = s.recency.PushFront(&cached{name: name, record: record})
	if s.maxEntries > 0 && s.recency.Len() > s.maxEntries {
		oldest := s.recency.Back()
		s.recency.Remove(oldest)
		delete(s.records, oldest.Value.(*cached).name)
	}
	return nil
}

// Has reports presence without touching recency.
func (s *Store) Has(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[name]
	return ok, nil
}

// Len returns the number of cached records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Clear drops every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*list.Element)
	s.recency.Init()
}

var _ domain.RecordStore = (*Store)(nil)
