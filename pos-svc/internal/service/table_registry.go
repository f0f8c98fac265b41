package service

import (
	"context"
	"errors"
	"fmt"

	"overcooked-pos/pos-svc/internal/domain"
)

// TableRegistry owns occupancy transitions. It is only called from inside an
// OrderLedger transaction.
type TableRegistry struct{}

func NewTableRegistry() *TableRegistry {
	return &TableRegistry{}
}

// Lock takes the row lock that serializes all order writes for a table.
func (r *TableRegistry) Lock(ctx context.Context, repo TableRepository, name string) (*domain.Table, error) {
	table, err := repo.LockByName(ctx, name)
	if errors.Is(err, domain.ErrTableNotFound) {
		return nil, domain.NewValidationError("table_name", "unknown table %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("lock table %s: %w", name, err)
	}
	return table, nil
}

// EnsureOccupied moves an available table to occupied and reports whether
// the status changed. Occupied and bill are left as they are.
func (r *TableRegistry) EnsureOccupied(ctx context.Context, repo TableRepository, table *domain.Table) (bool, error) {
	if table.Status != domain.TableAvailable {
		return false, nil
	}
	if err := repo.SetStatus(ctx, table.Name, domain.TableOccupied); err != nil {
		return false, fmt.Errorf("occupy table %s: %w", table.Name, err)
	}
	table.Status = domain.TableOccupied
	return true, nil
}

func (r *TableRegistry) Release(ctx context.Context, repo TableRepository, table *domain.Table) (bool, error) {
	if table.Status == domain.TableAvailable {
		return false, nil
	}
	if err := repo.SetStatus(ctx, table.Name, domain.TableAvailable); err != nil {
		return false, fmt.Errorf("release table %s: %w", table.Name, err)
	}
	table.Status = domain.TableAvailable
	return true, nil
}
