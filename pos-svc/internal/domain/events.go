package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderPlaced    EventType = "order.placed"
	EventOrderAppended  EventType = "order.appended"
	EventOrderServed    EventType = "order.served"
	EventOrderPaid      EventType = "order.paid"
	EventOrderCompleted EventType = "order.completed"
	EventOrderCancelled EventType = "order.cancelled"
	EventOrderMoved     EventType = "order.moved"
	EventTableChanged   EventType = "table.changed"
	EventBillRequested  EventType = "table.bill_requested"
	EventStockLow       EventType = "stock.low"
)

// Event is published after the transaction that produced it commits.
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

func NewEvent(t EventType) Event {
	return Event{ID: uuid.NewString(), Type: t, OccurredAt: time.Now().UTC()}
}

func NewOrderEvent(t EventType, o *Order) Event {
	e := NewEvent(t)
	e.OrderID = o.ID
	e.TableName = o.Table()
	e.Status = string(o.Status)
	e.Amount = o.TotalAmount
	return e
}

func NewTableEvent(t EventType, table string, status TableStatus) Event {
	e := NewEvent(t)
	e.TableName = table
	e.Status = string(status)
	return e
}

func NewStockLowEvent(ing Ingredient) Event {
	e := NewEvent(EventStockLow)
	e.Stock = &StockLevel{
		IngredientID: ing.ID,
		Name:         ing.Name,
		Unit:         ing.Unit,
		Quantity:     ing.TotalQuantity,
	}
	return e
}

func EventLines(items []OrderItem) []EventLine {
	lines := make([]EventLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, EventLine{ProductID: it.ProductID, Name: it.ProductName, Quantity: it.Quantity, Price: it.Price})
	}
	return lines
}
