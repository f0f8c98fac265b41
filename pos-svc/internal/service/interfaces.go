package service

import (
	"context"

	"overcooked-pos/pos-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// UnitOfWork runs fn inside one transaction. Returning an error from fn
// rolls everything back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the repositories bound to a single transaction.
type Tx interface {
	Tables() TableRepository
	Orders() OrderRepository
	Stock() StockRepository
	Catalog() CatalogRepository
}

type TableRepository interface {
	// LockByName returns domain.ErrTableNotFound for unknown tables.
	LockByName(ctx context.Context, name string) (*domain.Table, error)
	SetStatus(ctx context.Context, name string, status domain.TableStatus) error
	List(ctx context.Context) ([]domain.Table, error)
}

type OrderRepository interface {
	Find(ctx context.Context, id int64) (*domain.Order, error)
	LockByID(ctx context.Context, id int64) (*domain.Order, error)
	// FindOpenByTable returns nil, nil when the table has no open order.
	FindOpenByTable(ctx context.Context, tableName string) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	MarkItemsServed(ctx context.Context, orderID int64) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	// ReservationStatus returns domain.ErrReservationNotFound for unknown ids.
	ReservationStatus(ctx context.Context, reservationID int64) (string, error)
	CompleteReservation(ctx context.Context, reservationID int64) error
}

type StockRepository interface {
	// LockIngredients locks the rows for ids in ascending id order and
	// returns the ones that exist.
	LockIngredients(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
	Decrement(ctx context.Context, ingredientID int64, qty decimal.Decimal) error
	// LockOptions locks size option rows in the order of refs and returns
	// the ones that exist.
	LockOptions(ctx context.Context, refs []domain.OptionRef) ([]domain.Option, error)
	DecrementOption(ctx context.Context, ref domain.OptionRef, qty int64) error
}

type CatalogRepository interface {
	Products(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	Options(ctx context.Context, refs []domain.OptionRef) (map[domain.OptionRef]domain.Option, error)
	Recipes(ctx context.Context, productIDs []int64, refs []domain.OptionRef) (domain.RecipeBook, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

type BoardCache interface {
	Get(ctx context.Context) ([]domain.Table, bool, error)
	Set(ctx context.Context, tables []domain.Table) error
	Invalidate(ctx context.Context) error
}

type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

type OrderLedgerInterface interface {
	PlaceOrCreate(ctx context.Context, req domain.PlaceOrderRequest) (*domain.PlaceResult, error)
	Serve(ctx context.Context, orderID int64) (domain.OrderStatus, error)
	Pay(ctx context.Context, req domain.PaymentRequest) error
	Complete(ctx context.Context, orderID int64, paymentMethod string) error
	Cancel(ctx context.Context, orderID int64) error
	MoveTable(ctx context.Context, orderID int64, tableName string) error
	RequestBill(ctx context.Context, tableName string) error
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
}

type TableBoardInterface interface {
	List(ctx context.Context) ([]domain.Table, error)
}

var (
	_ OrderLedgerInterface = (*OrderLedger)(nil)
	_ TableBoardInterface  = (*TableBoard)(nil)
	_ EventPublisher       = (*TableBoard)(nil)
	_ EventPublisher       = Publishers(nil)
	_ QRGenerator          = (*TrackingQR)(nil)
)
