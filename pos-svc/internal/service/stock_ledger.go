package service

import (
	"context"
	"fmt"

	"overcooked-pos/pos-svc/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockLedger reserves ingredient and size option stock inside the caller's
// transaction.
type StockLedger struct {
	logger *zap.Logger
}

func NewStockLedger(logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{logger: logger}
}

// Reserve locks every demanded ingredient and size option, checks all of
// them, and only then decrements. It returns the post-decrement levels of the
// touched ingredient rows.
func (s *StockLedger) Reserve(ctx context.Context, repo StockRepository, demand domain.Demand, sizes domain.OptionDemand) ([]domain.Ingredient, error) {
	if len(demand) == 0 && len(sizes) == 0 {
		return nil, nil
	}
	ids := demand.IDs()
	refs := sizes.Refs()

	found := make(map[int64]domain.Ingredient, len(ids))
	if len(ids) > 0 {
		rows, err := repo.LockIngredients(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("lock ingredients: %w", err)
		}
		for _, ing := range rows {
			found[ing.ID] = ing
		}
	}

	options := make(map[domain.OptionRef]domain.Option, len(refs))
	if len(refs) > 0 {
		rows, err := repo.LockOptions(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("lock size options: %w", err)
		}
		for _, opt := range rows {
			options[opt.Ref()] = opt
		}
	}

	var missing []int64
	var shortages []domain.Shortage
	for _, id := range ids {
		ing, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		need := demand[id]
		if ing.TotalQuantity.LessThan(need) {
			shortages = append(shortages, domain.Shortage{
				IngredientID: id,
				Name:         ing.Name,
				Unit:         ing.Unit,
				Required:     need,
				Available:    ing.TotalQuantity,
				Shortfall:    need.Sub(ing.TotalQuantity),
			})
		}
	}
	if len(missing) > 0 {
		return nil, &domain.IngredientNotFoundError{IDs: missing}
	}

	for _, ref := range refs {
		opt, ok := options[ref]
		if !ok {
			return nil, domain.NewValidationError("options", "unknown option %d", ref.ID)
		}
		need := sizes[ref]
		if opt.StockQuantity < need {
			shortages = append(shortages, domain.Shortage{
				OptionID:  ref.ID,
				Global:    ref.Global,
				Name:      opt.Name,
				Unit:      "pcs",
				Required:  decimal.NewFromInt(need),
				Available: decimal.NewFromInt(opt.StockQuantity),
				Shortfall: decimal.NewFromInt(need - opt.StockQuantity),
			})
		}
	}
	if len(shortages) > 0 {
		s.logger.Info("stock reservation rejected", zap.Int("short_items", len(shortages)))
		return nil, &domain.InsufficientStockError{Shortages: shortages}
	}

	levels := make([]domain.Ingredient, 0, len(ids))
	for _, id := range ids {
		need := demand[id]
		if err := repo.Decrement(ctx, id, need); err != nil {
			return nil, fmt.Errorf("decrement ingredient %d: %w", id, err)
		}
		ing := found[id]
		ing.TotalQuantity = ing.TotalQuantity.Sub(need)
		levels = append(levels, ing)
	}
	for _, ref := range refs {
		if err := repo.DecrementOption(ctx, ref, sizes[ref]); err != nil {
			return nil, fmt.Errorf("decrement option %d: %w", ref.ID, err)
		}
	}
	s.logger.Debug("stock reserved", zap.Int("ingredients", len(levels)), zap.Int("size_options", len(refs)))
	return levels, nil
}
