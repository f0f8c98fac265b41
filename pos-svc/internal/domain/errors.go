package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyPaid         = errors.New("order already settled")
	ErrInvalidTransition   = errors.New("invalid order transition")
	ErrTableConflict       = errors.New("concurrent update on table, retry")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// InsufficientStockError lists every ingredient that could not cover demand.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s short by %s %s", s.Name, s.Shortfall.String(), s.Unit))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// IngredientNotFoundError is returned when a recipe references missing stock rows.
type IngredientNotFoundError struct {
	IDs []int64
}

func (e *IngredientNotFoundError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return "ingredients not found: " + strings.Join(ids, ", ")
}

// StoreClosedError rejects new orders outside opening hours or after last
// order.
type StoreClosedError struct {
	Status  StoreStatus
	Message string
}

func (e *StoreClosedError) Error() string {
	return e.Message
}
