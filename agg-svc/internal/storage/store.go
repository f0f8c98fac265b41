package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"overcooked-pos/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	lowStockKey   = "stock:low"
	salesTTL      = 7 * 24 * time.Hour
	processedTTL  = 48 * time.Hour
	processedKeyF = "events:processed:%s"
)

func salesKey(day string) string { return "sales:daily:" + day }
func namesKey(day string) string { return "sales:names:" + day }

// Store keeps the aggregates in Redis: a sorted set of quantities sold per
// day, a hash of product names next to it, and a hash of low-stock alerts.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Processed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, fmt.Sprintf(processedKeyF, eventID)).Result()
	return n > 0, err
}

func (s *Store) MarkProcessed(ctx context.Context, eventID string) error {
	return s.rdb.Set(ctx, fmt.Sprintf(processedKeyF, eventID), 1, processedTTL).Err()
}

func (s *Store) RecordSales(ctx context.Context, day string, lines []domain.EventLine) error {
	if len(lines) == 0 {
		return nil
	}
	pipe := s.rdb.TxPipeline()
	for _, line := range lines {
		member := strconv.FormatInt(line.ProductID, 10)
		pipe.ZIncrBy(ctx, salesKey(day), float64(line.Quantity), member)
		pipe.HSet(ctx, namesKey(day), member, line.Name)
	}
	pipe.Expire(ctx, salesKey(day), salesTTL)
	pipe.Expire(ctx, namesKey(day), salesTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) RecordLowStock(ctx context.Context, level domain.StockLevel, at time.Time) error {
	payload, err := json.Marshal(domain.StockAlert{StockLevel: level, ReportedAt: at.UTC()})
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, lowStockKey, strconv.FormatInt(level.IngredientID, 10), payload).Err()
}

// TopSales returns up to limit products of day ordered by quantity sold.
func (s *Store) TopSales(ctx context.Context, day string, limit int64) ([]domain.ProductSales, error) {
	entries, err := s.rdb.ZRevRangeWithScores(ctx, salesKey(day), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	members := make([]string, 0, len(entries))
	for _, z := range entries {
		members = append(members, z.Member.(string))
	}
	names, err := s.rdb.HMGet(ctx, namesKey(day), members...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out := make([]domain.ProductSales, 0, len(entries))
	for i, z := range entries {
		id, err := strconv.ParseInt(members[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad product member %q: %w", members[i], err)
		}
		row := domain.ProductSales{ProductID: id, Quantity: int64(z.Score)}
		if i < len(names) {
			if name, ok := names[i].(string); ok {
				row.Name = name
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// LowStock lists alerts ordered by ingredient id.
func (s *Store) LowStock(ctx context.Context) ([]domain.StockAlert, error) {
	raw, err := s.rdb.HGetAll(ctx, lowStockKey).Result()
	if err != nil {
		return nil, err
	}
	alerts := make([]domain.StockAlert, 0, len(raw))
	for field, value := range raw {
		var alert domain.StockAlert
		if err := json.Unmarshal([]byte(value), &alert); err != nil {
			return nil, fmt.Errorf("decode alert %s: %w", field, err)
		}
		alerts = append(alerts, alert)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].IngredientID < alerts[j].IngredientID })
	return alerts, nil
}
