package abuseguard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore, AttemptStore'un Redis implementasyonu.
//
// Yatay ölçekli deploy'larda instance'lar sayaçları paylaşmalıdır —
// aksi halde saldırgan her instance'ta threshold-1 deneme yapabilir.
// Kayıtlar JSON olarak, TTL ile yazılır: Redis retention'ı kendisi
// uygular, sweep goroutine'ine gerek yoktur.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore, Redis bağlantısını doğrulayıp store'u oluşturur.
func NewRedisStore(ctx context.Context, opts *redis.Options, retention time.Duration) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		retention: retention,
	}, nil
}

// key, identifier'ı namespace'li Redis key'ine çevirir.
func (s *RedisStore) key(id string) string {
	return "login_guard:" + id
}

// Get, kaydı okur. Key yoksa (nil, nil) döner.
func (s *RedisStore) Get(ctx context.Context, id string) (*AttemptRecord, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read attempt record: %w", err)
	}

	var rec AttemptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode attempt record: %w", err)
	}
	return &rec, nil
}

// Put, kaydı retention TTL'i ile yazar.
func (s *RedisStore) Put(ctx context.Context, id string, rec *AttemptRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode attempt record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(id), data, s.retention).Err(); err != nil {
		return fmt.Errorf("failed to write attempt record: %w", err)
	}
	return nil
}

// Delete, kaydı siler.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete attempt record: %w", err)
	}
	return nil
}

// Close, Redis bağlantısını kapatır.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
