package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

// Store is a domain.RecordStore shared across service replicas. Records are
// stored as JSON under prefix+name without expiry.
type Store struct {
	client *redis.Client
	prefix string
}

// Dial parses a redis:// URL, connects, and verifies the connection with PING.
func Dial(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) Get(ctx context.Context, name string) (domain.RegionRecord, bool, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RegionRecord{}, false, nil
	}
	if err != nil {
		return domain.RegionRecord{}, false, fmt.Errorf("redis get %q: %w", name, err)
	}

	var rec domain.RegionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.RegionRecord{}, false, fmt.Errorf("decode cached record %q: %w", name, err)
	}
	return rec, true, nil
}

func (s *Store) Set(ctx context.Context, name string, record domain.RegionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", name, err)
	}
	return nil
}

func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %q: %w", name, err)
	}
	return n > 0, nil
}

// CheckReadiness pings Redis.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ domain.RecordStore = (*Store)(nil)
