package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

const boardKey = "pos:tables:board"

type RedisBoardCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisBoardCache(client *redis.Client, ttl time.Duration) *RedisBoardCache {
	return &RedisBoardCache{Client: client, TTL: ttl}
}

var _ service.BoardCache = (*RedisBoardCache)(nil)

func (c *RedisBoardCache) Get(ctx context.Context) ([]domain.Table, bool, error) {
	raw, err := c.Client.Get(ctx, boardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tables []domain.Table
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, false, err
	}
	return tables, true, nil
}

func (c *RedisBoardCache) Set(ctx context.Context, tables []domain.Table) error {
	payload, err := json.Marshal(tables)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, boardKey, payload, c.TTL).Err()
}

func (c *RedisBoardCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, boardKey).Err()
}
