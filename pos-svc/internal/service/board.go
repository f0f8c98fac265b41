package service

import (
	"context"
	"errors"

	"overcooked-pos/pos-svc/internal/domain"

	"go.uber.org/zap"
)

// TableBoard serves the floor plan, read through an optional cache. It also
// listens to ledger events so occupancy changes drop the cached copy.
type TableBoard struct {
	uow    UnitOfWork
	cache  BoardCache
	logger *zap.Logger
}

func NewTableBoard(uow UnitOfWork, cache BoardCache, logger *zap.Logger) *TableBoard {
	return &TableBoard{uow: uow, cache: cache, logger: logger}
}

func (b *TableBoard) List(ctx context.Context) ([]domain.Table, error) {
	if b.cache != nil {
		tables, ok, err := b.cache.Get(ctx)
		if err != nil {
			b.logger.Warn("table board cache read failed", zap.Error(err))
		} else if ok {
			return tables, nil
		}
	}

	var tables []domain.Table
	err := b.uow.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		tables, err = tx.Tables().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, tables); err != nil {
			b.logger.Warn("table board cache write failed", zap.Error(err))
		}
	}
	return tables, nil
}

func (b *TableBoard) Publish(ctx context.Context, events ...domain.Event) error {
	if b.cache == nil {
		return nil
	}
	for _, e := range events {
		if e.Type == domain.EventTableChanged {
			return b.cache.Invalidate(ctx)
		}
	}
	return nil
}

// Publishers fans events out to every publisher and joins their errors.
type Publishers []EventPublisher

func (p Publishers) Publish(ctx context.Context, events ...domain.Event) error {
	var errs error
	for _, pub := range p {
		if pub == nil {
			continue
		}
		errs = errors.Join(errs, pub.Publish(ctx, events...))
	}
	return errs
}
