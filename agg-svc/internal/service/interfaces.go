package service

import (
	"context"
	"time"

	"overcooked-pos/agg-svc/internal/domain"
	"overcooked-pos/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	Processed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
	RecordSales(ctx context.Context, day string, lines []domain.EventLine) error
	RecordLowStock(ctx context.Context, level domain.StockLevel, at time.Time) error
	TopSales(ctx context.Context, day string, limit int64) ([]domain.ProductSales, error)
	LowStock(ctx context.Context) ([]domain.StockAlert, error)
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessEvent(ctx context.Context, event domain.Event) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
