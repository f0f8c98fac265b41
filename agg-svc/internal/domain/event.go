package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType mirrors the event names published by pos-svc.
type EventType string

const (
	EventOrderPlaced   EventType = "order.placed"
	EventOrderAppended EventType = "order.appended"
	EventStockLow      EventType = "stock.low"
)

type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	OrderID    int64           `json:"order_id,omitempty"`
	TableName  string          `json:"table_name,omitempty"`
	Status     string          `json:"status,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Lines      []EventLine     `json:"lines,omitempty"`
	Stock      *StockLevel     `json:"stock,omitempty"`
}

type EventLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type StockLevel struct {
	IngredientID int64           `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// Day is the UTC calendar day an event counts towards.
func (e Event) Day() string {
	return DayOf(e.OccurredAt)
}

func DayOf(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

const DayLayout = "2006-01-02"
