package tests

import (
	"testing"
	"time"

	"overcooked-pos/pos-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		seats   int
		wantErr bool
	}{
		{name: "valid", table: " T-01 ", seats: 4},
		{name: "blank name", table: "  ", seats: 4, wantErr: true},
		{name: "negative seats", table: "T-02", seats: -1, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			table, err := domain.NewTable(testCase.table, "main", testCase.seats)
			if testCase.wantErr {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "T-01", table.Name)
			assert.Equal(t, domain.TableAvailable, table.Status)
		})
	}
}

func TestNewIngredientAndRecipeLine(t *testing.T) {
	_, err := domain.NewIngredient("Pork", dec("-1"), "kg")
	assert.Error(t, err)

	ing, err := domain.NewIngredient("Pork", dec("10"), "kg")
	require.NoError(t, err)
	assert.Equal(t, "Pork", ing.Name)

	_, err = domain.NewRecipeLine(1, decimal.Zero)
	assert.Error(t, err)
	_, err = domain.NewRecipeLine(0, dec("1"))
	assert.Error(t, err)

	line, err := domain.NewRecipeLine(1, dec("0.25"))
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(dec("0.25")))
}

func TestNewOption(t *testing.T) {
	opt, err := domain.NewOption(5, 0, "Extra egg", dec("5"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, opt.Global)
	assert.True(t, opt.Multiplier().Equal(decimal.NewFromInt(1)))

	_, err = domain.NewOption(6, 1, "Tiny", decimal.Zero, dec("-0.5"))
	assert.Error(t, err)
}

func TestNewOrderItem_SnapshotsPriceWithOptions(t *testing.T) {
	product := domain.Product{ID: 1, Name: "Latte", Price: dec("60"), Available: true}
	large := domain.Option{ID: 10, ProductID: 1, Name: "Large", PriceModifier: dec("15")}
	shot := domain.Option{ID: 20, Global: true, Name: "Extra shot", PriceModifier: dec("10")}

	item, err := domain.NewOrderItem(product, 2, []domain.Option{large, shot})
	require.NoError(t, err)

	assert.Equal(t, "Latte", item.ProductName)
	assert.True(t, item.Price.Equal(dec("85")))
	assert.True(t, item.LineTotal().Equal(dec("170")))
	assert.Equal(t, domain.ItemCooking, item.Status)
	require.Len(t, item.Options, 2)
	assert.True(t, item.Options[1].Global)

	_, err = domain.NewOrderItem(product, 0, nil)
	assert.Error(t, err)
}

func TestPlaceOrderRequest_Validate(t *testing.T) {
	item := []domain.ItemRequest{{ProductID: 1, Quantity: 1}}
	tests := []struct {
		name    string
		req     domain.PlaceOrderRequest
		wantErr string
	}{
		{name: "dine in defaults", req: domain.PlaceOrderRequest{TableName: strPtr("T-01"), Items: item}},
		{name: "takeaway", req: domain.PlaceOrderRequest{OrderType: domain.Takeaway, Items: item}},
		{name: "unknown type", req: domain.PlaceOrderRequest{OrderType: "delivery", Items: item}, wantErr: "order_type"},
		{name: "dine in without table", req: domain.PlaceOrderRequest{TableName: strPtr(" "), Items: item}, wantErr: "table_name"},
		{name: "takeaway with table", req: domain.PlaceOrderRequest{OrderType: domain.Takeaway, TableName: strPtr("T-01"), Items: item}, wantErr: "table_name"},
		{name: "no items", req: domain.PlaceOrderRequest{TableName: strPtr("T-01")}, wantErr: "items"},
		{name: "missing product", req: domain.PlaceOrderRequest{TableName: strPtr("T-01"), Items: []domain.ItemRequest{{Quantity: 1}}}, wantErr: "product_id"},
		{name: "zero quantity", req: domain.PlaceOrderRequest{TableName: strPtr("T-01"), Items: []domain.ItemRequest{{ProductID: 1}}}, wantErr: "quantity"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := testCase.req
			err := req.Validate()
			if testCase.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, req.OrderType.Valid())
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, testCase.wantErr, verr.Field)
		})
	}
}

func TestOrder_TotalsRoundTrip(t *testing.T) {
	taxRate := dec("0.07")
	order := domain.NewOrder(strPtr("T-01"), domain.DineIn, nil)
	items := []domain.OrderItem{
		{Price: dec("45.50"), Quantity: 2},
		{Price: dec("12.25"), Quantity: 3},
	}

	sum := decimal.Zero
	for _, it := range items {
		order.AddSubtotal(it.LineTotal(), taxRate)
		sum = sum.Add(it.LineTotal())
	}
	require.NoError(t, order.ApplyDiscount(dec("10"), taxRate))

	assert.True(t, order.Subtotal.Equal(sum))
	assert.True(t, sum.Sub(order.Discount).Add(order.Tax).Equal(order.GrandTotal))
	assert.True(t, order.TotalAmount.Equal(order.GrandTotal))

	assert.Error(t, order.ApplyDiscount(order.Subtotal.Add(dec("1")), taxRate))
	assert.Error(t, order.ApplyDiscount(dec("-1"), taxRate))
}

func TestOrderStatuses(t *testing.T) {
	assert.True(t, domain.OrderCooking.IsOpen())
	assert.True(t, domain.OrderReady.IsOpen())
	assert.False(t, domain.OrderPaid.IsOpen())
	assert.False(t, domain.OrderCancelled.IsOpen())
	assert.True(t, domain.OrderCompleted.IsSettled())
	assert.Equal(t, domain.OrderServed, domain.DineIn.ServedStatus())
	assert.Equal(t, domain.OrderReady, domain.Takeaway.ServedStatus())
}

func TestDemand_IDsSorted(t *testing.T) {
	d := domain.Demand{}
	d.Add(9, dec("1"))
	d.Add(2, dec("1"))
	d.Add(9, dec("2"))

	assert.Equal(t, []int64{2, 9}, d.IDs())
	assert.True(t, d[9].Equal(dec("3")))
}

func TestErrors_Messages(t *testing.T) {
	err := &domain.InsufficientStockError{Shortages: []domain.Shortage{
		{Name: "Pork", Unit: "kg", Shortfall: dec("2")},
		{Name: "Rice", Unit: "g", Shortfall: dec("50")},
	}}
	assert.Equal(t, "insufficient stock: Pork short by 2 kg, Rice short by 50 g", err.Error())
	assert.Equal(t, "ingredients not found: 4, 7", (&domain.IngredientNotFoundError{IDs: []int64{4, 7}}).Error())
}

func TestParseStoreHours(t *testing.T) {
	tests := []struct {
		name      string
		open      string
		close     string
		lastOrder time.Duration
		zone      string
		wantErr   bool
	}{
		{name: "regular day", open: "10:00", close: "22:00", lastOrder: 30 * time.Minute},
		{name: "named zone", open: "10:00", close: "22:00", zone: "Asia/Manila"},
		{name: "not a clock time", open: "ten", close: "22:00", wantErr: true},
		{name: "spans midnight", open: "18:00", close: "02:00", wantErr: true},
		{name: "same open and close", open: "10:00", close: "10:00", wantErr: true},
		{name: "last order before opening", open: "10:00", close: "11:00", lastOrder: time.Hour, wantErr: true},
		{name: "negative last order", open: "10:00", close: "22:00", lastOrder: -time.Minute, wantErr: true},
		{name: "unknown zone", open: "10:00", close: "22:00", zone: "Mars/Olympus", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			hours, err := domain.ParseStoreHours(testCase.open, testCase.close, testCase.lastOrder, testCase.zone)
			if testCase.wantErr {
				assert.Error(t, err)
				assert.Nil(t, hours)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 10*time.Hour, hours.Open)
			assert.Equal(t, 22*time.Hour, hours.Close)
		})
	}
}

func TestStoreHours_Status(t *testing.T) {
	hours, err := domain.ParseStoreHours("10:00", "22:00", 30*time.Minute, "")
	require.NoError(t, err)
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		now  time.Time
		want domain.StoreStatus
	}{
		{name: "before opening", now: at(9, 59), want: domain.StoreClosed},
		{name: "at opening", now: at(10, 0), want: domain.StoreOpen},
		{name: "just before last order", now: at(21, 29), want: domain.StoreOpen},
		{name: "last order", now: at(21, 30), want: domain.StoreLastOrder},
		{name: "at closing", now: at(22, 0), want: domain.StoreClosed},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, hours.Status(testCase.now))
		})
	}
}

func TestStoreHours_Check(t *testing.T) {
	var always *domain.StoreHours
	assert.NoError(t, always.Check(time.Now()))

	hours, err := domain.ParseStoreHours("10:00", "22:00", 30*time.Minute, "Asia/Manila")
	require.NoError(t, err)

	// 01:00 UTC is 09:00 in Manila.
	err = hours.Check(time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC))
	var closed *domain.StoreClosedError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, domain.StoreClosed, closed.Status)
	assert.Equal(t, "store is closed, opening hours 10:00-22:00", closed.Error())

	err = hours.Check(time.Date(2026, 3, 14, 13, 45, 0, 0, time.UTC))
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, domain.StoreLastOrder, closed.Status)
	assert.Equal(t, "last order was taken at 21:30", closed.Error())

	assert.NoError(t, hours.Check(time.Date(2026, 3, 14, 4, 0, 0, 0, time.UTC)))
}
