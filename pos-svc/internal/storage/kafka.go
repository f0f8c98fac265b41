package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"overcooked-pos/observability"
	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes ledger events to one topic, keyed so that events of
// the same table (or order, for takeaway) stay in one partition.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

var _ service.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	headers := observability.InjectKafkaHeaders(ctx)

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(eventKey(e)),
			Value:   payload,
			Headers: append([]kafka.Header{{Key: "event_type", Value: []byte(e.Type)}}, headers...),
		})
	}
	return p.Writer.WriteMessages(ctx, msgs...)
}

func eventKey(e domain.Event) string {
	switch {
	case e.TableName != "":
		return "table:" + e.TableName
	case e.OrderID != 0:
		return "order:" + strconv.FormatInt(e.OrderID, 10)
	case e.Stock != nil:
		return "ingredient:" + strconv.FormatInt(e.Stock.IngredientID, 10)
	}
	return e.ID
}
