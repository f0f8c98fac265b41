package tests

import (
	"context"
	"testing"
	"time"

	"overcooked-pos/agg-svc/internal/domain"
	"overcooked-pos/agg-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*storage.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return storage.NewStore(rdb), mr
}

func TestStore_TopSales(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordSales(ctx, "2026-03-14", []domain.EventLine{
		{ProductID: 2, Name: "Fried rice", Quantity: 2},
		{ProductID: 3, Name: "Iced tea", Quantity: 1},
	}))
	require.NoError(t, store.RecordSales(ctx, "2026-03-14", []domain.EventLine{
		{ProductID: 3, Name: "Iced tea", Quantity: 4},
	}))
	require.NoError(t, store.RecordSales(ctx, "2026-03-15", []domain.EventLine{
		{ProductID: 1, Name: "Pancit", Quantity: 9},
	}))

	sales, err := store.TopSales(ctx, "2026-03-14", 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProductSales{
		{ProductID: 3, Name: "Iced tea", Quantity: 5},
		{ProductID: 2, Name: "Fried rice", Quantity: 2},
	}, sales)

	top, err := store.TopSales(ctx, "2026-03-14", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(3), top[0].ProductID)

	empty, err := store.TopSales(ctx, "2026-01-01", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.True(t, mr.TTL("sales:daily:2026-03-14") > 0)
}

func TestStore_LowStock(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordLowStock(ctx, domain.StockLevel{IngredientID: 3, Name: "Egg", Unit: "pcs", Quantity: decimal.NewFromInt(2)}, at))
	require.NoError(t, store.RecordLowStock(ctx, domain.StockLevel{IngredientID: 1, Name: "Pork", Unit: "kg", Quantity: decimal.NewFromInt(4)}, at))
	require.NoError(t, store.RecordLowStock(ctx, domain.StockLevel{IngredientID: 1, Name: "Pork", Unit: "kg", Quantity: decimal.NewFromInt(1)}, at.Add(time.Hour)))

	alerts, err := store.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Pork", alerts[0].Name)
	assert.Equal(t, "1", alerts[0].Quantity.String())
	assert.True(t, alerts[0].ReportedAt.Equal(at.Add(time.Hour)))
	assert.Equal(t, int64(3), alerts[1].IngredientID)
}

func TestStore_ProcessedEvents(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	seen, err := store.Processed(ctx, "e-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.MarkProcessed(ctx, "e-1"))
	seen, err = store.Processed(ctx, "e-1")
	require.NoError(t, err)
	assert.True(t, seen)

	mr.FastForward(49 * time.Hour)
	seen, err = store.Processed(ctx, "e-1")
	require.NoError(t, err)
	assert.False(t, seen)
}
