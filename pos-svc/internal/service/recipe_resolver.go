package service

import (
	"overcooked-pos/pos-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// RecipeResolver turns priced line items into aggregate ingredient demand.
type RecipeResolver struct{}

func NewRecipeResolver() *RecipeResolver {
	return &RecipeResolver{}
}

// Resolve sums base recipes × quantity and option recipes × quantity ×
// multiplier. An upsizing variant (multiplier above 1) also adds
// (multiplier - 1) × base recipe; a smaller variant never reduces the base, so
// every contribution is positive. Products and options without recipe rows
// add nothing.
func (r *RecipeResolver) Resolve(lines []domain.LineItem, book domain.RecipeBook) (domain.Demand, error) {
	demand := domain.Demand{}
	one := decimal.NewFromInt(1)

	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, domain.NewValidationError("product_id", "is required")
		}
		if line.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity", "must be positive for product %d", line.ProductID)
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		base := book.Products[line.ProductID]

		for _, row := range base {
			demand.Add(row.IngredientID, row.Quantity.Mul(qty))
		}

		for _, opt := range line.Options {
			mult := opt.Multiplier()
			if mult.GreaterThan(one) {
				extra := mult.Sub(one)
				for _, row := range base {
					demand.Add(row.IngredientID, row.Quantity.Mul(extra).Mul(qty))
				}
			}
			for _, row := range book.Options[opt.Ref()] {
				demand.Add(row.IngredientID, row.Quantity.Mul(qty).Mul(mult))
			}
		}
	}
	return demand, nil
}

// SizeDemand counts the pieces each size option needs across all lines.
func (r *RecipeResolver) SizeDemand(lines []domain.LineItem) domain.OptionDemand {
	demand := domain.OptionDemand{}
	for _, line := range lines {
		for _, opt := range line.Options {
			if opt.SizeOption {
				demand[opt.Ref()] += int64(line.Quantity)
			}
		}
	}
	return demand
}
