package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const openOrderIndex = "orders_one_open_per_table"

// Store is the Postgres unit of work. Repositories handed to fn share one
// *sql.Tx and rely on row locks for serialization.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx service.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps driver errors onto the domain taxonomy. Domain errors pass
// through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == openOrderIndex,
			pqErr.Code == "40001",
			pqErr.Code == "40P01":
			return fmt.Errorf("%w: %s", domain.ErrTableConflict, pqErr.Message)
		case pqErr.Code == "23503":
			return &domain.ValidationError{Field: foreignKeyField(pqErr), Message: "references a missing row"}
		}
	}
	// connection loss (class 08, driver.ErrBadConn, sql.ErrConnDone) and
	// anything else unexpected
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

// foreignKeyField turns a constraint like orders_reservation_id_fkey into
// reservation_id.
func foreignKeyField(pqErr *pq.Error) string {
	field := strings.TrimSuffix(pqErr.Constraint, "_fkey")
	if pqErr.Table != "" {
		field = strings.TrimPrefix(field, pqErr.Table+"_")
	}
	return field
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Tables() service.TableRepository    { return &tableRepo{tx: t.tx} }
func (t *pgTx) Orders() service.OrderRepository    { return &orderRepo{tx: t.tx} }
func (t *pgTx) Stock() service.StockRepository     { return &stockRepo{tx: t.tx} }
func (t *pgTx) Catalog() service.CatalogRepository { return &catalogRepo{tx: t.tx} }

var (
	_ service.UnitOfWork        = (*Store)(nil)
	_ service.TableRepository   = (*tableRepo)(nil)
	_ service.OrderRepository   = (*orderRepo)(nil)
	_ service.StockRepository   = (*stockRepo)(nil)
	_ service.CatalogRepository = (*catalogRepo)(nil)
)

type tableRepo struct {
	tx *sql.Tx
}

func (r *tableRepo) LockByName(ctx context.Context, name string) (*domain.Table, error) {
	var t domain.Table
	err := r.tx.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(zone, ''), seats, status
		FROM tables
		WHERE name = $1
		FOR UPDATE`, name).
		Scan(&t.ID, &t.Name, &t.Zone, &t.Seats, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTableNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return &t, nil
}

func (r *tableRepo) SetStatus(ctx context.Context, name string, status domain.TableStatus) error {
	_, err := r.tx.ExecContext(ctx, "UPDATE tables SET status = $1 WHERE name = $2", status, name)
	return classify(err)
}

func (r *tableRepo) List(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, name, COALESCE(zone, ''), seats, status
		FROM tables
		ORDER BY zone, name`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Zone, &t.Seats, &t.Status); err != nil {
			return nil, classify(err)
		}
		tables = append(tables, t)
	}
	return tables, classify(rows.Err())
}

type orderRepo struct {
	tx *sql.Tx
}

const orderColumns = `id, table_name, order_type, status, subtotal, discount_amount, tax_amount,
		grand_total, total_amount, payment_method, reservation_id, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var (
		o             domain.Order
		tableName     sql.NullString
		paymentMethod sql.NullString
		reservationID sql.NullInt64
	)
	if err := row.Scan(&o.ID, &tableName, &o.OrderType, &o.Status, &o.Subtotal, &o.Discount, &o.Tax,
		&o.GrandTotal, &o.TotalAmount, &paymentMethod, &reservationID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if tableName.Valid {
		o.TableName = &tableName.String
	}
	if paymentMethod.Valid {
		o.PaymentMethod = &paymentMethod.String
	}
	if reservationID.Valid {
		o.ReservationID = &reservationID.Int64
	}
	return &o, nil
}

func (r *orderRepo) findOne(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	return o, nil
}

func (r *orderRepo) Find(ctx context.Context, id int64) (*domain.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

func (r *orderRepo) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
}

func (r *orderRepo) FindOpenByTable(ctx context.Context, tableName string) (*domain.Order, error) {
	o, err := r.findOne(ctx, "SELECT "+orderColumns+` FROM orders
		WHERE table_name = $1 AND status = ANY($2)
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE`, tableName, pq.Array(openStatuses()))
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, nil
	}
	return o, err
}

func openStatuses() []string {
	out := make([]string, 0, len(domain.OpenStatuses))
	for _, s := range domain.OpenStatuses {
		out = append(out, string(s))
	}
	return out
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	err := r.tx.QueryRowContext(ctx, `
		INSERT INTO orders (table_name, order_type, status, subtotal, discount_amount, tax_amount,
			grand_total, total_amount, reservation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		nullString(o.TableName), o.OrderType, o.Status, o.Subtotal, o.Discount, o.Tax,
		o.GrandTotal, o.TotalAmount, nullInt64(o.ReservationID)).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return classify(err)
}

func (r *orderRepo) Update(ctx context.Context, o *domain.Order) error {
	_, err := r.tx.ExecContext(ctx, `
		UPDATE orders
		SET table_name = $1, status = $2, subtotal = $3, discount_amount = $4, tax_amount = $5,
			grand_total = $6, total_amount = $7, payment_method = $8, updated_at = NOW()
		WHERE id = $9`,
		nullString(o.TableName), o.Status, o.Subtotal, o.Discount, o.Tax,
		o.GrandTotal, o.TotalAmount, nullString(o.PaymentMethod), o.ID)
	return classify(err)
}

func (r *orderRepo) InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	for i := range items {
		item := &items[i]
		item.OrderID = orderID
		if err := r.tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, price, quantity, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			orderID, item.ProductID, item.ProductName, item.Price, item.Quantity, item.Status).
			Scan(&item.ID, &item.CreatedAt); err != nil {
			return classify(err)
		}
		for _, opt := range item.Options {
			if _, err := r.tx.ExecContext(ctx, `
				INSERT INTO order_item_options (order_item_id, option_id, is_global, option_name, price_modifier)
				VALUES ($1, $2, $3, $4, $5)`,
				item.ID, opt.OptionID, opt.Global, opt.Name, opt.PriceModifier); err != nil {
				return classify(err)
			}
		}
	}
	return nil
}

func (r *orderRepo) MarkItemsServed(ctx context.Context, orderID int64) (int64, error) {
	res, err := r.tx.ExecContext(ctx,
		"UPDATE order_items SET status = $1 WHERE order_id = $2 AND status <> $1",
		domain.ItemServed, orderID)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	return n, classify(err)
}

func (r *orderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, price, quantity, status, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	index := map[int64]int{}
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Status, &it.CreatedAt); err != nil {
			return nil, classify(err)
		}
		index[it.ID] = len(order.Items)
		order.Items = append(order.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	optRows, err := r.tx.QueryContext(ctx, `
		SELECT oio.order_item_id, oio.option_id, oio.is_global, oio.option_name, oio.price_modifier
		FROM order_item_options oio
		JOIN order_items oi ON oi.id = oio.order_item_id
		WHERE oi.order_id = $1
		ORDER BY oio.id`, id)
	if err != nil {
		return nil, classify(err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var (
			itemID int64
			opt    domain.OrderItemOption
		)
		if err := optRows.Scan(&itemID, &opt.OptionID, &opt.Global, &opt.Name, &opt.PriceModifier); err != nil {
			return nil, classify(err)
		}
		if i, ok := index[itemID]; ok {
			order.Items[i].Options = append(order.Items[i].Options, opt)
		}
	}
	return order, classify(optRows.Err())
}

func (r *orderRepo) ReservationStatus(ctx context.Context, reservationID int64) (string, error) {
	var status string
	err := r.tx.QueryRowContext(ctx,
		"SELECT status FROM reservations WHERE id = $1 FOR SHARE", reservationID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrReservationNotFound
	}
	if err != nil {
		return "", classify(err)
	}
	return status, nil
}

func (r *orderRepo) CompleteReservation(ctx context.Context, reservationID int64) error {
	res, err := r.tx.ExecContext(ctx,
		"UPDATE reservations SET status = 'completed', updated_at = NOW() WHERE id = $1", reservationID)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

type stockRepo struct {
	tx *sql.Tx
}

func (r *stockRepo) LockIngredients(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, name, total_quantity, COALESCE(unit, '')
		FROM ingredients
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.TotalQuantity, &ing.Unit); err != nil {
			return nil, classify(err)
		}
		out = append(out, ing)
	}
	return out, classify(rows.Err())
}

func (r *stockRepo) Decrement(ctx context.Context, ingredientID int64, qty decimal.Decimal) error {
	_, err := r.tx.ExecContext(ctx,
		"UPDATE ingredients SET total_quantity = total_quantity - $1 WHERE id = $2", qty, ingredientID)
	return classify(err)
}

const optionColumns = "id, name, price_modifier, recipe_multiplier, is_size_option, stock_quantity"

// optionTable returns the table holding options of ref's kind.
func optionTable(global bool) string {
	if global {
		return "global_options"
	}
	return "product_options"
}

// LockOptions locks size option rows, product-scoped ones first, matching
// domain.OptionDemand.Refs.
func (r *stockRepo) LockOptions(ctx context.Context, refs []domain.OptionRef) ([]domain.Option, error) {
	scoped, global := splitRefs(refs)
	var out []domain.Option
	for _, group := range []struct {
		global bool
		ids    []int64
	}{{false, scoped}, {true, global}} {
		if len(group.ids) == 0 {
			continue
		}
		columns := optionColumns
		if !group.global {
			columns += ", product_id"
		}
		opts, err := queryOptions(ctx, r.tx, group.global, `
			SELECT `+columns+`
			FROM `+optionTable(group.global)+`
			WHERE id = ANY($1) AND is_size_option
			ORDER BY id
			FOR UPDATE`, group.ids)
		if err != nil {
			return nil, err
		}
		out = append(out, opts...)
	}
	return out, nil
}

func (r *stockRepo) DecrementOption(ctx context.Context, ref domain.OptionRef, qty int64) error {
	_, err := r.tx.ExecContext(ctx,
		"UPDATE "+optionTable(ref.Global)+" SET stock_quantity = stock_quantity - $1 WHERE id = $2", qty, ref.ID)
	return classify(err)
}

// queryOptions scans rows selected with optionColumns, plus product_id for
// product-scoped options.
func queryOptions(ctx context.Context, tx *sql.Tx, global bool, query string, ids []int64) ([]domain.Option, error) {
	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []domain.Option
	for rows.Next() {
		o := domain.Option{Global: global}
		dest := []any{&o.ID, &o.Name, &o.PriceModifier, &o.RecipeMultiplier, &o.SizeOption, &o.StockQuantity}
		if !global {
			dest = append(dest, &o.ProductID)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, classify(err)
		}
		out = append(out, o)
	}
	return out, classify(rows.Err())
}

type catalogRepo struct {
	tx *sql.Tx
}

func (r *catalogRepo) Products(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.tx.QueryContext(ctx,
		"SELECT id, name, price, is_available FROM products WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Available); err != nil {
			return nil, classify(err)
		}
		out[p.ID] = p
	}
	return out, classify(rows.Err())
}

func splitRefs(refs []domain.OptionRef) (scoped, global []int64) {
	for _, ref := range refs {
		if ref.Global {
			global = append(global, ref.ID)
		} else {
			scoped = append(scoped, ref.ID)
		}
	}
	return scoped, global
}

func (r *catalogRepo) Options(ctx context.Context, refs []domain.OptionRef) (map[domain.OptionRef]domain.Option, error) {
	out := map[domain.OptionRef]domain.Option{}
	scoped, global := splitRefs(refs)

	if len(scoped) > 0 {
		opts, err := queryOptions(ctx, r.tx, false, `
			SELECT `+optionColumns+`, product_id
			FROM product_options
			WHERE id = ANY($1)`, scoped)
		if err != nil {
			return nil, err
		}
		for _, o := range opts {
			out[o.Ref()] = o
		}
	}

	if len(global) > 0 {
		opts, err := queryOptions(ctx, r.tx, true, `
			SELECT `+optionColumns+`
			FROM global_options
			WHERE id = ANY($1) AND is_active`, global)
		if err != nil {
			return nil, err
		}
		for _, o := range opts {
			out[o.Ref()] = o
		}
	}
	return out, nil
}

func (r *catalogRepo) Recipes(ctx context.Context, productIDs []int64, refs []domain.OptionRef) (domain.RecipeBook, error) {
	book := domain.NewRecipeBook()

	if len(productIDs) > 0 {
		err := r.recipeRows(ctx, `
			SELECT product_id, ingredient_id, quantity_used
			FROM product_ingredients
			WHERE product_id = ANY($1)`, productIDs, func(owner int64, line domain.RecipeLine) {
			book.Products[owner] = append(book.Products[owner], line)
		})
		if err != nil {
			return book, err
		}
	}

	scoped, global := splitRefs(refs)
	if len(scoped) > 0 {
		err := r.recipeRows(ctx, `
			SELECT option_id, ingredient_id, quantity_used
			FROM option_recipes
			WHERE option_id = ANY($1)`, scoped, func(owner int64, line domain.RecipeLine) {
			ref := domain.OptionRef{ID: owner}
			book.Options[ref] = append(book.Options[ref], line)
		})
		if err != nil {
			return book, err
		}
	}
	if len(global) > 0 {
		err := r.recipeRows(ctx, `
			SELECT global_option_id, ingredient_id, quantity_used
			FROM global_option_recipes
			WHERE global_option_id = ANY($1)`, global, func(owner int64, line domain.RecipeLine) {
			ref := domain.OptionRef{ID: owner, Global: true}
			book.Options[ref] = append(book.Options[ref], line)
		})
		if err != nil {
			return book, err
		}
	}
	return book, nil
}

func (r *catalogRepo) recipeRows(ctx context.Context, query string, ids []int64, add func(owner int64, line domain.RecipeLine)) error {
	rows, err := r.tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			owner int64
			line  domain.RecipeLine
		)
		if err := rows.Scan(&owner, &line.IngredientID, &line.Quantity); err != nil {
			return classify(err)
		}
		add(owner, line)
	}
	return classify(rows.Err())
}
