package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"overcooked-pos/pos-svc/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	reservationCompleted = "completed"
	reservationCancelled = "cancelled"
)

type LedgerConfig struct {
	TaxRate           decimal.Decimal
	LowStockThreshold decimal.Decimal
	MaxAttempts       int
	RetryBackoff      time.Duration
	// Hours limits when new orders are taken. Nil accepts orders at any time.
	Hours *domain.StoreHours
	Now   func() time.Time
}

// OrderLedger owns the order lifecycle. Every mutating call runs as one
// transaction: table row lock first, then ingredient rows by id, then the
// order row. Events are published only after commit.
type OrderLedger struct {
	uow       UnitOfWork
	resolver  *RecipeResolver
	stock     *StockLedger
	tables    *TableRegistry
	publisher EventPublisher
	tracer    trace.Tracer
	logger    *zap.Logger
	cfg       LedgerConfig
}

func NewOrderLedger(uow UnitOfWork, publisher EventPublisher, logger *zap.Logger, tracer trace.Tracer, cfg LedgerConfig) *OrderLedger {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 10 * time.Millisecond
	}
	if publisher == nil {
		publisher = Publishers(nil)
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pos-svc")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &OrderLedger{
		uow:       uow,
		resolver:  NewRecipeResolver(),
		stock:     NewStockLedger(logger),
		tables:    NewTableRegistry(),
		publisher: publisher,
		tracer:    tracer,
		logger:    logger,
		cfg:       cfg,
	}
}

type txFunc func(ctx context.Context, tx Tx) ([]domain.Event, error)

// run retries fn in a fresh transaction while it fails with a table conflict.
func (l *OrderLedger) run(ctx context.Context, op string, fn txFunc) error {
	var lastErr error
	for attempt := 1; attempt <= l.cfg.MaxAttempts; attempt++ {
		var events []domain.Event
		err := l.uow.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
			var err error
			events, err = fn(ctx, tx)
			return err
		})
		if err == nil {
			l.publish(ctx, events)
			return nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrTableConflict) || attempt == l.cfg.MaxAttempts {
			break
		}
		l.logger.Warn("transaction conflict, retrying",
			zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.cfg.RetryBackoff * time.Duration(attempt)):
		}
	}
	return lastErr
}

func (l *OrderLedger) publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := l.publisher.Publish(ctx, events...); err != nil {
		l.logger.Warn("event publish failed", zap.Int("events", len(events)), zap.Error(err))
	}
}

func (l *OrderLedger) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// PlaceOrCreate appends the requested items to the table's open order, or
// opens a new cooking order when there is none.
func (l *OrderLedger) PlaceOrCreate(ctx context.Context, req domain.PlaceOrderRequest) (result *domain.PlaceResult, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := l.cfg.Hours.Check(l.cfg.Now()); err != nil {
		return nil, err
	}

	ctx, span := l.startSpan(ctx, "order.place",
		attribute.String("order.type", string(req.OrderType)),
		attribute.Int("order.lines", len(req.Items)),
	)
	defer func() { endSpan(span, err) }()
	if req.TableName != nil {
		span.SetAttributes(attribute.String("table.name", *req.TableName))
	}

	err = l.run(ctx, "place", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		res, events, err := l.place(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		result = res
		return events, nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", result.OrderID))
	l.logger.Info("order placed",
		zap.Int64("order_id", result.OrderID),
		zap.Bool("appended", result.Appended),
		zap.String("total_amount", result.TotalAmount.StringFixed(2)),
	)
	return result, nil
}

func (l *OrderLedger) place(ctx context.Context, tx Tx, req domain.PlaceOrderRequest) (*domain.PlaceResult, []domain.Event, error) {
	var table *domain.Table
	if req.TableName != nil {
		t, err := l.tables.Lock(ctx, tx.Tables(), *req.TableName)
		if err != nil {
			return nil, nil, err
		}
		table = t
	}
	if req.ReservationID != nil {
		if err := l.checkReservation(ctx, tx.Orders(), *req.ReservationID); err != nil {
			return nil, nil, err
		}
	}

	items, lines, err := l.priceItems(ctx, tx.Catalog(), req.Items)
	if err != nil {
		return nil, nil, err
	}

	book, err := tx.Catalog().Recipes(ctx, lineProductIDs(lines), lineOptionRefs(lines))
	if err != nil {
		return nil, nil, fmt.Errorf("load recipes: %w", err)
	}
	demand, err := l.resolver.Resolve(lines, book)
	if err != nil {
		return nil, nil, err
	}
	levels, err := l.stock.Reserve(ctx, tx.Stock(), demand, l.resolver.SizeDemand(lines))
	if err != nil {
		return nil, nil, err
	}

	var tableEvents []domain.Event
	if table != nil {
		changed, err := l.tables.EnsureOccupied(ctx, tx.Tables(), table)
		if err != nil {
			return nil, nil, err
		}
		if changed {
			tableEvents = append(tableEvents, domain.NewTableEvent(domain.EventTableChanged, table.Name, table.Status))
		}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	var order *domain.Order
	if table != nil {
		order, err = tx.Orders().FindOpenByTable(ctx, table.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("find open order for %s: %w", table.Name, err)
		}
	}

	eventType := domain.EventOrderPlaced
	if order != nil {
		eventType = domain.EventOrderAppended
		order.AddSubtotal(subtotal, l.cfg.TaxRate)
		if err := tx.Orders().Update(ctx, order); err != nil {
			return nil, nil, fmt.Errorf("update order %d: %w", order.ID, err)
		}
	} else {
		order = domain.NewOrder(req.TableName, req.OrderType, req.ReservationID)
		order.AddSubtotal(subtotal, l.cfg.TaxRate)
		if err := tx.Orders().Create(ctx, order); err != nil {
			return nil, nil, fmt.Errorf("create order: %w", err)
		}
	}

	if err := tx.Orders().InsertItems(ctx, order.ID, items); err != nil {
		return nil, nil, fmt.Errorf("insert items for order %d: %w", order.ID, err)
	}

	if !req.TotalAmount.IsZero() && !req.TotalAmount.Equal(subtotal) {
		l.logger.Warn("client total differs from catalog price",
			zap.String("client_total", req.TotalAmount.String()),
			zap.String("computed_total", subtotal.String()),
		)
	}

	placed := domain.NewOrderEvent(eventType, order)
	placed.Lines = domain.EventLines(items)
	events := append([]domain.Event{placed}, tableEvents...)
	for _, lvl := range levels {
		if lvl.TotalQuantity.LessThanOrEqual(l.cfg.LowStockThreshold) {
			events = append(events, domain.NewStockLowEvent(lvl))
		}
	}

	return &domain.PlaceResult{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Appended:    eventType == domain.EventOrderAppended,
	}, events, nil
}

func (l *OrderLedger) checkReservation(ctx context.Context, orders OrderRepository, id int64) error {
	status, err := orders.ReservationStatus(ctx, id)
	if errors.Is(err, domain.ErrReservationNotFound) {
		return domain.NewValidationError("reservation_id", "unknown reservation %d", id)
	}
	if err != nil {
		return fmt.Errorf("load reservation %d: %w", id, err)
	}
	if status == reservationCompleted || status == reservationCancelled {
		return domain.NewValidationError("reservation_id", "reservation %d is %s", id, status)
	}
	return nil
}

// priceItems checks every line against the catalog and snapshots names and
// unit prices.
func (l *OrderLedger) priceItems(ctx context.Context, catalog CatalogRepository, reqs []domain.ItemRequest) ([]domain.OrderItem, []domain.LineItem, error) {
	var productIDs []int64
	seen := map[int64]bool{}
	var refs []domain.OptionRef
	for _, r := range reqs {
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			productIDs = append(productIDs, r.ProductID)
		}
		refs = append(refs, r.OptionRefs()...)
	}

	products, err := catalog.Products(ctx, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	options := map[domain.OptionRef]domain.Option{}
	if len(refs) > 0 {
		options, err = catalog.Options(ctx, refs)
		if err != nil {
			return nil, nil, fmt.Errorf("load options: %w", err)
		}
	}

	items := make([]domain.OrderItem, 0, len(reqs))
	lines := make([]domain.LineItem, 0, len(reqs))
	for _, r := range reqs {
		product, ok := products[r.ProductID]
		if !ok {
			return nil, nil, domain.NewValidationError("product_id", "unknown product %d", r.ProductID)
		}
		if !product.Available {
			return nil, nil, domain.NewValidationError("product_id", "product %q is not available", product.Name)
		}

		var selected []domain.Option
		for _, ref := range r.OptionRefs() {
			opt, ok := options[ref]
			if !ok {
				return nil, nil, domain.NewValidationError("options", "unknown option %d", ref.ID)
			}
			if !ref.Global && opt.ProductID != product.ID {
				return nil, nil, domain.NewValidationError("selected_option_ids", "option %d does not belong to product %d", ref.ID, product.ID)
			}
			selected = append(selected, opt)
		}

		item, err := domain.NewOrderItem(product, r.Quantity, selected)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
		lines = append(lines, domain.LineItem{ProductID: product.ID, Quantity: r.Quantity, Options: selected})
	}
	return items, lines, nil
}

func lineProductIDs(lines []domain.LineItem) []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

func lineOptionRefs(lines []domain.LineItem) []domain.OptionRef {
	seen := map[domain.OptionRef]bool{}
	var refs []domain.OptionRef
	for _, line := range lines {
		for _, opt := range line.Options {
			if ref := opt.Ref(); !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// lockOrder locks the order's table before the order row so it takes locks
// in the same order as PlaceOrCreate.
func (l *OrderLedger) lockOrder(ctx context.Context, tx Tx, id int64) (*domain.Order, *domain.Table, error) {
	peek, err := tx.Orders().Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var table *domain.Table
	if peek.TableName != nil {
		table, err = l.tables.Lock(ctx, tx.Tables(), *peek.TableName)
		if err != nil {
			return nil, nil, err
		}
	}

	order, err := tx.Orders().LockByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order.Table() != peek.Table() {
		return nil, nil, fmt.Errorf("order %d moved while locking: %w", id, domain.ErrTableConflict)
	}
	return order, table, nil
}

// Serve marks every item served and returns the resulting order status:
// served for dine-in, ready for takeaway. Calling it again is a no-op.
func (l *OrderLedger) Serve(ctx context.Context, orderID int64) (status domain.OrderStatus, err error) {
	ctx, span := l.startSpan(ctx, "order.serve", attribute.Int64("order.id", orderID))
	defer func() { endSpan(span, err) }()

	err = l.run(ctx, "serve", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		order, err := tx.Orders().LockByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !order.Status.IsOpen() {
			return nil, fmt.Errorf("serve order %d in status %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
		}

		changed, err := tx.Orders().MarkItemsServed(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("serve items of order %d: %w", orderID, err)
		}
		target := order.OrderType.ServedStatus()
		status = target
		if changed == 0 && order.Status == target {
			return nil, nil
		}

		order.Status = target
		if err := tx.Orders().Update(ctx, order); err != nil {
			return nil, fmt.Errorf("update order %d: %w", orderID, err)
		}
		l.logger.Info("order served", zap.Int64("order_id", orderID), zap.Int64("items", changed))
		return []domain.Event{domain.NewOrderEvent(domain.EventOrderServed, order)}, nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// Pay settles a dine-in order and frees its table. Stock is untouched.
func (l *OrderLedger) Pay(ctx context.Context, req domain.PaymentRequest) (err error) {
	if err := req.Validate(); err != nil {
		return err
	}
	ctx, span := l.startSpan(ctx, "order.pay",
		attribute.Int64("order.id", req.OrderID),
		attribute.String("payment.method", req.PaymentMethod),
	)
	defer func() { endSpan(span, err) }()

	return l.run(ctx, "pay", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		order, table, err := l.lockOrder(ctx, tx, req.OrderID)
		if err != nil {
			return nil, err
		}
		switch {
		case order.Status.IsSettled():
			return nil, fmt.Errorf("pay order %d: %w", order.ID, domain.ErrAlreadyPaid)
		case order.Status == domain.OrderCancelled:
			return nil, fmt.Errorf("pay cancelled order %d: %w", order.ID, domain.ErrInvalidTransition)
		case order.OrderType == domain.Takeaway:
			return nil, fmt.Errorf("takeaway order %d is settled at pickup: %w", order.ID, domain.ErrInvalidTransition)
		}

		if err := order.ApplyDiscount(req.Discount, l.cfg.TaxRate); err != nil {
			return nil, err
		}
		order.Status = domain.OrderPaid
		method := req.PaymentMethod
		order.PaymentMethod = &method

		events, err := l.settle(ctx, tx, order, table)
		if err != nil {
			return nil, err
		}
		l.logger.Info("order paid",
			zap.Int64("order_id", order.ID),
			zap.String("payment_method", method),
			zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		)
		return append([]domain.Event{domain.NewOrderEvent(domain.EventOrderPaid, order)}, events...), nil
	})
}

// Complete hands a takeaway order over at pickup and records its payment.
func (l *OrderLedger) Complete(ctx context.Context, orderID int64, paymentMethod string) (err error) {
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return domain.NewValidationError("payment_method", "is required")
	}
	ctx, span := l.startSpan(ctx, "order.complete", attribute.Int64("order.id", orderID))
	defer func() { endSpan(span, err) }()

	return l.run(ctx, "complete", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		order, table, err := l.lockOrder(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		switch {
		case order.Status.IsSettled():
			return nil, fmt.Errorf("complete order %d: %w", order.ID, domain.ErrAlreadyPaid)
		case order.Status == domain.OrderCancelled:
			return nil, fmt.Errorf("complete cancelled order %d: %w", order.ID, domain.ErrInvalidTransition)
		case order.OrderType != domain.Takeaway:
			return nil, fmt.Errorf("dine-in order %d is settled with pay: %w", order.ID, domain.ErrInvalidTransition)
		}

		if err := order.ApplyDiscount(decimal.Zero, l.cfg.TaxRate); err != nil {
			return nil, err
		}
		order.Status = domain.OrderCompleted
		order.PaymentMethod = &paymentMethod

		events, err := l.settle(ctx, tx, order, table)
		if err != nil {
			return nil, err
		}
		l.logger.Info("order completed", zap.Int64("order_id", order.ID), zap.String("payment_method", paymentMethod))
		return append([]domain.Event{domain.NewOrderEvent(domain.EventOrderCompleted, order)}, events...), nil
	})
}

// settle persists a terminal order, closes its reservation and frees its table.
func (l *OrderLedger) settle(ctx context.Context, tx Tx, order *domain.Order, table *domain.Table) ([]domain.Event, error) {
	if err := tx.Orders().Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order %d: %w", order.ID, err)
	}
	if order.ReservationID != nil {
		if err := tx.Orders().CompleteReservation(ctx, *order.ReservationID); err != nil {
			return nil, fmt.Errorf("complete reservation %d: %w", *order.ReservationID, err)
		}
	}
	if table == nil {
		return nil, nil
	}
	released, err := l.tables.Release(ctx, tx.Tables(), table)
	if err != nil {
		return nil, err
	}
	if !released {
		return nil, nil
	}
	return []domain.Event{domain.NewTableEvent(domain.EventTableChanged, table.Name, table.Status)}, nil
}

// Cancel voids an open order and frees its table. Reserved stock is not
// returned.
func (l *OrderLedger) Cancel(ctx context.Context, orderID int64) (err error) {
	ctx, span := l.startSpan(ctx, "order.cancel", attribute.Int64("order.id", orderID))
	defer func() { endSpan(span, err) }()

	return l.run(ctx, "cancel", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		order, table, err := l.lockOrder(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		switch {
		case order.Status == domain.OrderCancelled:
			return nil, nil
		case order.Status.IsSettled():
			return nil, fmt.Errorf("cancel order %d: %w", order.ID, domain.ErrAlreadyPaid)
		}

		order.Status = domain.OrderCancelled
		if err := tx.Orders().Update(ctx, order); err != nil {
			return nil, fmt.Errorf("update order %d: %w", order.ID, err)
		}
		events := []domain.Event{domain.NewOrderEvent(domain.EventOrderCancelled, order)}
		if table != nil {
			released, err := l.tables.Release(ctx, tx.Tables(), table)
			if err != nil {
				return nil, err
			}
			if released {
				events = append(events, domain.NewTableEvent(domain.EventTableChanged, table.Name, table.Status))
			}
		}
		l.logger.Info("order cancelled", zap.Int64("order_id", order.ID))
		return events, nil
	})
}

// MoveTable moves an open dine-in order to another table that has no open
// order of its own.
func (l *OrderLedger) MoveTable(ctx context.Context, orderID int64, tableName string) (err error) {
	tableName = strings.TrimSpace(tableName)
	if tableName == "" {
		return domain.NewValidationError("table_name", "is required")
	}
	ctx, span := l.startSpan(ctx, "order.move",
		attribute.Int64("order.id", orderID),
		attribute.String("table.name", tableName),
	)
	defer func() { endSpan(span, err) }()

	return l.run(ctx, "move", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		peek, err := tx.Orders().Find(ctx, orderID)
		if err != nil {
			return nil, err
		}
		switch {
		case peek.Status.IsSettled():
			return nil, fmt.Errorf("move order %d: %w", orderID, domain.ErrAlreadyPaid)
		case !peek.Status.IsOpen(), peek.OrderType != domain.DineIn, peek.TableName == nil:
			return nil, fmt.Errorf("move order %d: %w", orderID, domain.ErrInvalidTransition)
		}
		from := *peek.TableName
		if from == tableName {
			return nil, nil
		}

		names := []string{from, tableName}
		sort.Strings(names)
		locked := make(map[string]*domain.Table, 2)
		for _, name := range names {
			t, err := l.tables.Lock(ctx, tx.Tables(), name)
			if err != nil {
				return nil, err
			}
			locked[name] = t
		}

		order, err := tx.Orders().LockByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Table() != from || !order.Status.IsOpen() {
			return nil, fmt.Errorf("order %d changed while locking: %w", orderID, domain.ErrTableConflict)
		}

		other, err := tx.Orders().FindOpenByTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("find open order for %s: %w", tableName, err)
		}
		if other != nil {
			return nil, domain.NewValidationError("table_name", "table %q already has open order %d", tableName, other.ID)
		}

		order.TableName = &tableName
		if err := tx.Orders().Update(ctx, order); err != nil {
			return nil, fmt.Errorf("update order %d: %w", orderID, err)
		}

		events := []domain.Event{domain.NewOrderEvent(domain.EventOrderMoved, order)}
		if occupied, err := l.tables.EnsureOccupied(ctx, tx.Tables(), locked[tableName]); err != nil {
			return nil, err
		} else if occupied {
			events = append(events, domain.NewTableEvent(domain.EventTableChanged, tableName, domain.TableOccupied))
		}
		if released, err := l.tables.Release(ctx, tx.Tables(), locked[from]); err != nil {
			return nil, err
		} else if released {
			events = append(events, domain.NewTableEvent(domain.EventTableChanged, from, domain.TableAvailable))
		}

		l.logger.Info("order moved", zap.Int64("order_id", orderID), zap.String("from", from), zap.String("to", tableName))
		return events, nil
	})
}

// RequestBill signals that a table asked for its bill. It changes no state.
func (l *OrderLedger) RequestBill(ctx context.Context, tableName string) (err error) {
	tableName = strings.TrimSpace(tableName)
	if tableName == "" {
		return domain.NewValidationError("table_name", "is required")
	}
	ctx, span := l.startSpan(ctx, "table.request_bill", attribute.String("table.name", tableName))
	defer func() { endSpan(span, err) }()

	return l.run(ctx, "request_bill", func(ctx context.Context, tx Tx) ([]domain.Event, error) {
		if _, err := l.tables.Lock(ctx, tx.Tables(), tableName); err != nil {
			return nil, err
		}
		open, err := tx.Orders().FindOpenByTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("find open order for %s: %w", tableName, err)
		}
		if open == nil {
			return nil, domain.NewValidationError("table_name", "table %q has no open order", tableName)
		}
		return []domain.Event{domain.NewOrderEvent(domain.EventBillRequested, open)}, nil
	})
}

func (l *OrderLedger) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order *domain.Order
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		order, err = tx.Orders().Get(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
