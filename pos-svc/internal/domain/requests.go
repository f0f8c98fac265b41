package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	ProductID         int64   `json:"product_id"`
	Quantity          int     `json:"quantity"`
	SelectedOptionIDs []int64 `json:"selected_option_ids,omitempty"`
	GlobalOptionIDs   []int64 `json:"global_option_ids,omitempty"`
}

func (r ItemRequest) OptionRefs() []OptionRef {
	refs := make([]OptionRef, 0, len(r.SelectedOptionIDs)+len(r.GlobalOptionIDs))
	for _, id := range r.SelectedOptionIDs {
		refs = append(refs, OptionRef{ID: id})
	}
	for _, id := range r.GlobalOptionIDs {
		refs = append(refs, OptionRef{ID: id, Global: true})
	}
	return refs
}

type PlaceOrderRequest struct {
	TableName     *string         `json:"table_name"`
	OrderType     OrderType       `json:"order_type"`
	Items         []ItemRequest   `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ReservationID *int64          `json:"reservation_id,omitempty"`
}

// Validate normalises the request in place and checks its shape. Catalog
// lookups happen later, inside the transaction.
func (r *PlaceOrderRequest) Validate() error {
	if r.OrderType == "" {
		r.OrderType = DineIn
	}
	if !r.OrderType.Valid() {
		return NewValidationError("order_type", "must be dine_in or takeaway")
	}
	if r.TableName != nil {
		name := strings.TrimSpace(*r.TableName)
		if name == "" {
			r.TableName = nil
		} else {
			r.TableName = &name
		}
	}
	switch {
	case r.OrderType == DineIn && r.TableName == nil:
		return NewValidationError("table_name", "is required for dine_in orders")
	case r.OrderType == Takeaway && r.TableName != nil:
		return NewValidationError("table_name", "must be empty for takeaway orders")
	}
	if len(r.Items) == 0 {
		return NewValidationError("items", "must not be empty")
	}
	for _, item := range r.Items {
		if item.ProductID <= 0 {
			return NewValidationError("product_id", "is required")
		}
		if item.Quantity <= 0 {
			return NewValidationError("quantity", "must be positive for product %d", item.ProductID)
		}
	}
	return nil
}

type PaymentRequest struct {
	OrderID       int64           `json:"-"`
	PaymentMethod string          `json:"payment_method"`
	Discount      decimal.Decimal `json:"discount"`
}

func (r *PaymentRequest) Validate() error {
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
	if r.PaymentMethod == "" {
		return NewValidationError("payment_method", "is required")
	}
	if r.Discount.IsNegative() {
		return NewValidationError("discount", "must not be negative")
	}
	return nil
}
