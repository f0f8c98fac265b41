package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"overcooked-pos/agg-svc/internal/domain"
	"overcooked-pos/observability"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	fetchBackoff    = time.Second
	maxRetryBackoff = 30 * time.Second
)

// Consumer folds pos-svc events into the Redis aggregates. A message that
// fails to apply is retried in place, and its offset is committed only once
// it is applied, so delivery is at least once. Applied event ids are
// remembered for two days to drop redeliveries.
type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Logger *zap.Logger
	Tracer trace.Tracer
	// RetryBackoff is the first pause before re-applying a failed message.
	// It doubles up to 30s.
	RetryBackoff time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *zap.Logger, tracer trace.Tracer) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("agg-svc")
	}
	return &Consumer{Reader: reader, Store: store, Logger: logger, Tracer: tracer, RetryBackoff: time.Second}
}

// Start reads until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info("aggregation consumer started")
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.Warn("fetch message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchBackoff):
			}
			continue
		}

		if !c.apply(ctx, msg) {
			return nil
		}
		if err := c.Reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.Logger.Warn("commit offset failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// apply retries msg until it is applied. Offsets are cumulative, so moving
// past a failed message would drop it. It reports false when ctx ends first.
func (c *Consumer) apply(ctx context.Context, msg kafka.Message) bool {
	backoff := c.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	for {
		err := c.HandleMessage(ctx, msg)
		if err == nil {
			return true
		}
		c.Logger.Error("event not applied, retrying",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		if backoff *= 2; backoff > maxRetryBackoff {
			backoff = maxRetryBackoff
		}
	}
}

// HandleMessage decodes one message and applies it. Undecodable payloads are
// logged and skipped so they do not block the partition.
func (c *Consumer) HandleMessage(ctx context.Context, msg kafka.Message) (err error) {
	ctx = observability.ExtractKafkaHeaders(ctx, msg.Headers)
	ctx, span := c.Tracer.Start(ctx, "event.consume", trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var event domain.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.Logger.Warn("skipping undecodable event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	span.SetAttributes(attribute.String("event.type", string(event.Type)))
	return c.ProcessEvent(ctx, event)
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.Event) error {
	switch event.Type {
	case domain.EventOrderPlaced, domain.EventOrderAppended, domain.EventStockLow:
	default:
		return nil
	}
	if event.ID == "" {
		return errors.New("event without id")
	}

	seen, err := c.Store.Processed(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("check event %s: %w", event.ID, err)
	}
	if seen {
		c.Logger.Debug("duplicate event ignored", zap.String("event_id", event.ID))
		return nil
	}

	switch event.Type {
	case domain.EventStockLow:
		if event.Stock == nil {
			break
		}
		if err := c.Store.RecordLowStock(ctx, *event.Stock, event.OccurredAt); err != nil {
			return fmt.Errorf("record low stock: %w", err)
		}
		c.Logger.Info("low stock recorded",
			zap.String("ingredient", event.Stock.Name),
			zap.String("quantity", event.Stock.Quantity.String()),
		)
	default:
		if err := c.Store.RecordSales(ctx, event.Day(), event.Lines); err != nil {
			return fmt.Errorf("record sales of order %d: %w", event.OrderID, err)
		}
		c.Logger.Debug("sales recorded", zap.Int64("order_id", event.OrderID), zap.Int("lines", len(event.Lines)))
	}

	if err := c.Store.MarkProcessed(ctx, event.ID); err != nil {
		return fmt.Errorf("mark event %s processed: %w", event.ID, err)
	}
	return nil
}
