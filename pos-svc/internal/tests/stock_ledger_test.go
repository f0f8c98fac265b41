package tests

import (
	"context"
	"testing"

	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func reserve(t *testing.T, f *fixture, demand domain.Demand) ([]domain.Ingredient, error) {
	t.Helper()
	ledger := service.NewStockLedger(zap.NewNop())
	var levels []domain.Ingredient
	err := f.store.WithinTx(context.Background(), func(ctx context.Context, tx service.Tx) error {
		var err error
		levels, err = ledger.Reserve(ctx, tx.Stock(), demand, nil)
		return err
	})
	return levels, err
}

func TestStockLedger_Reserve(t *testing.T) {
	tests := []struct {
		name          string
		demand        domain.Demand
		wantShortages []int64
		wantMissing   []int64
		wantLeft      map[int64]string
	}{
		{
			name:     "sufficient stock is decremented",
			demand:   domain.Demand{porkID: dec("4"), riceID: dec("250")},
			wantLeft: map[int64]string{porkID: "6", riceID: "750", eggID: "12"},
		},
		{
			name:     "exact stock drains to zero",
			demand:   domain.Demand{porkID: dec("10")},
			wantLeft: map[int64]string{porkID: "0", riceID: "1000"},
		},
		{
			name:          "one short ingredient leaves every row untouched",
			demand:        domain.Demand{porkID: dec("11"), riceID: dec("100"), eggID: dec("1")},
			wantShortages: []int64{porkID},
			wantLeft:      map[int64]string{porkID: "10", riceID: "1000", eggID: "12"},
		},
		{
			name:          "every short ingredient is listed",
			demand:        domain.Demand{eggID: dec("13"), porkID: dec("11")},
			wantShortages: []int64{porkID, eggID},
			wantLeft:      map[int64]string{porkID: "10", eggID: "12"},
		},
		{
			name:        "missing ingredient is a hard error",
			demand:      domain.Demand{porkID: dec("1"), 99: dec("1")},
			wantMissing: []int64{99},
			wantLeft:    map[int64]string{porkID: "10"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, service.LedgerConfig{})
			levels, err := reserve(t, f, testCase.demand)

			switch {
			case testCase.wantShortages != nil:
				var short *domain.InsufficientStockError
				require.ErrorAs(t, err, &short)
				var ids []int64
				for _, s := range short.Shortages {
					ids = append(ids, s.IngredientID)
				}
				assert.Equal(t, testCase.wantShortages, ids)
			case testCase.wantMissing != nil:
				var missing *domain.IngredientNotFoundError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, testCase.wantMissing, missing.IDs)
			default:
				require.NoError(t, err)
				assert.Len(t, levels, len(testCase.demand))
			}

			for id, want := range testCase.wantLeft {
				assert.Equal(t, want, f.quantity(t, id), "ingredient %d", id)
			}
		})
	}
}

func TestStockLedger_ShortageDetails(t *testing.T) {
	f := newFixture(t, service.LedgerConfig{})
	_, err := reserve(t, f, domain.Demand{porkID: dec("12.5")})

	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	require.Len(t, short.Shortages, 1)
	s := short.Shortages[0]
	assert.Equal(t, "Pork", s.Name)
	assert.Equal(t, "units", s.Unit)
	assert.Equal(t, "2.5", s.Shortfall.String())
	assert.Equal(t, "10", s.Available.String())
}

func TestStockLedger_EmptyDemandIsNoop(t *testing.T) {
	f := newFixture(t, service.LedgerConfig{})
	levels, err := reserve(t, f, domain.Demand{})
	assert.NoError(t, err)
	assert.Empty(t, levels)
}
