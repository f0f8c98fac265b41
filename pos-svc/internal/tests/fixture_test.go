package tests

import (
	"context"
	"sync"
	"testing"

	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"
	"overcooked-pos/pos-svc/internal/storage"

	"go.uber.org/zap"
)

const (
	porkID int64 = 1
	riceID int64 = 2
	eggID  int64 = 3

	pancitID    int64 = 1
	friedRiceID int64 = 2
	icedTeaID   int64 = 3
	soldOutID   int64 = 4
	ghostID     int64 = 5

	largeRiceID int64 = 10
	extraEggID  int64 = 20
	teaJugID    int64 = 30

	reservationID int64 = 500
)

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(_ context.Context, events ...domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type fixture struct {
	store  *storage.MemoryStore
	ledger *service.OrderLedger
	events *recorder
}

func seedStore() *storage.MemoryStore {
	store := storage.NewMemoryStore()
	for _, name := range []string{"T-01", "T-02", "T-03"} {
		table, _ := domain.NewTable(name, "main", 4)
		store.AddTable(*table)
	}

	store.AddIngredient(domain.Ingredient{ID: porkID, Name: "Pork", TotalQuantity: dec("10"), Unit: "units"})
	store.AddIngredient(domain.Ingredient{ID: riceID, Name: "Rice", TotalQuantity: dec("1000"), Unit: "g"})
	store.AddIngredient(domain.Ingredient{ID: eggID, Name: "Egg", TotalQuantity: dec("12"), Unit: "pcs"})

	store.AddProduct(domain.Product{ID: pancitID, Name: "Pancit", Price: dec("120"), Available: true},
		domain.RecipeLine{IngredientID: porkID, Quantity: dec("6")})
	store.AddProduct(domain.Product{ID: friedRiceID, Name: "Fried rice", Price: dec("80"), Available: true},
		domain.RecipeLine{IngredientID: riceID, Quantity: dec("150")})
	store.AddProduct(domain.Product{ID: icedTeaID, Name: "Iced tea", Price: dec("40"), Available: true})
	store.AddProduct(domain.Product{ID: soldOutID, Name: "Halo-halo", Price: dec("90"), Available: false})
	store.AddProduct(domain.Product{ID: ghostID, Name: "Mystery", Price: dec("10"), Available: true},
		domain.RecipeLine{IngredientID: 99, Quantity: dec("1")})

	large, _ := domain.NewOption(largeRiceID, friedRiceID, "Large", dec("20"), dec("1.5"))
	store.AddOption(large)
	egg, _ := domain.NewOption(extraEggID, 0, "Extra egg", dec("15"), dec("1"))
	store.AddOption(egg, domain.RecipeLine{IngredientID: eggID, Quantity: dec("1")})
	jug, _ := domain.NewOption(teaJugID, icedTeaID, "Jug", dec("60"), dec("1"))
	jug.SizeOption, jug.StockQuantity = true, 3
	store.AddOption(jug)

	store.AddReservation(reservationID)
	return store
}

func newFixture(t *testing.T, cfg service.LedgerConfig) *fixture {
	t.Helper()
	if cfg.LowStockThreshold.IsZero() {
		cfg.LowStockThreshold = dec("5")
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	store := seedStore()
	events := &recorder{}
	ledger := service.NewOrderLedger(store, events, zap.NewNop(), nil, cfg)
	return &fixture{store: store, ledger: ledger, events: events}
}

func (f *fixture) quantity(t *testing.T, id int64) string {
	t.Helper()
	ing, ok := f.store.Ingredient(id)
	if !ok {
		t.Fatalf("ingredient %d missing", id)
	}
	return ing.TotalQuantity.String()
}

func (f *fixture) tableStatus(t *testing.T, name string) domain.TableStatus {
	t.Helper()
	table, ok := f.store.Table(name)
	if !ok {
		t.Fatalf("table %s missing", name)
	}
	return table.Status
}

func dineIn(table string, items ...domain.ItemRequest) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{TableName: strPtr(table), OrderType: domain.DineIn, Items: items}
}

func takeaway(items ...domain.ItemRequest) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{OrderType: domain.Takeaway, Items: items}
}

func item(productID int64, qty int) domain.ItemRequest {
	return domain.ItemRequest{ProductID: productID, Quantity: qty}
}
