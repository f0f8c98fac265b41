package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"

	"github.com/shopspring/decimal"
)

// MemoryStore is an in-process unit of work. Transactions run one at a time
// against a copy of the state that replaces the original only on commit.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	tables         map[string]domain.Table
	ingredients    map[int64]domain.Ingredient
	products       map[int64]domain.Product
	options        map[domain.OptionRef]domain.Option
	productRecipes map[int64][]domain.RecipeLine
	optionRecipes  map[domain.OptionRef][]domain.RecipeLine
	orders         map[int64]domain.Order
	items          map[int64][]domain.OrderItem
	reservations   map[int64]string
	optionStock    map[domain.OptionRef]int64

	nextTableID int64
	nextOrderID int64
	nextItemID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		tables:         map[string]domain.Table{},
		ingredients:    map[int64]domain.Ingredient{},
		products:       map[int64]domain.Product{},
		options:        map[domain.OptionRef]domain.Option{},
		productRecipes: map[int64][]domain.RecipeLine{},
		optionRecipes:  map[domain.OptionRef][]domain.RecipeLine{},
		orders:         map[int64]domain.Order{},
		items:          map[int64][]domain.OrderItem{},
		reservations:   map[int64]string{},
		optionStock:    map[domain.OptionRef]int64{},
	}}
}

var _ service.UnitOfWork = (*MemoryStore)(nil)

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx service.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (st *memState) clone() *memState {
	c := &memState{
		tables:         make(map[string]domain.Table, len(st.tables)),
		ingredients:    make(map[int64]domain.Ingredient, len(st.ingredients)),
		products:       st.products,
		options:        st.options,
		productRecipes: st.productRecipes,
		optionRecipes:  st.optionRecipes,
		orders:         make(map[int64]domain.Order, len(st.orders)),
		items:          make(map[int64][]domain.OrderItem, len(st.items)),
		reservations:   make(map[int64]string, len(st.reservations)),
		optionStock:    make(map[domain.OptionRef]int64, len(st.optionStock)),
		nextTableID:    st.nextTableID,
		nextOrderID:    st.nextOrderID,
		nextItemID:     st.nextItemID,
	}
	for k, v := range st.tables {
		c.tables[k] = v
	}
	for k, v := range st.ingredients {
		c.ingredients[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.items {
		c.items[k] = append([]domain.OrderItem(nil), v...)
	}
	for k, v := range st.reservations {
		c.reservations[k] = v
	}
	for k, v := range st.optionStock {
		c.optionStock[k] = v
	}
	return c
}

// Seeding helpers. The catalog maps are shared between snapshots, so they
// must only be written before the store starts serving transactions.

func (s *MemoryStore) AddTable(t domain.Table) domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextTableID++
	t.ID = s.state.nextTableID
	if t.Status == "" {
		t.Status = domain.TableAvailable
	}
	s.state.tables[t.Name] = t
	return t
}

func (s *MemoryStore) AddIngredient(ing domain.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ingredients[ing.ID] = ing
}

func (s *MemoryStore) AddProduct(p domain.Product, recipe ...domain.RecipeLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID] = p
	if len(recipe) > 0 {
		s.state.productRecipes[p.ID] = recipe
	}
}

func (s *MemoryStore) AddOption(o domain.Option, recipe ...domain.RecipeLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.options[o.Ref()] = o
	if o.SizeOption {
		s.state.optionStock[o.Ref()] = o.StockQuantity
	}
	if len(recipe) > 0 {
		s.state.optionRecipes[o.Ref()] = recipe
	}
}

func (s *MemoryStore) AddReservation(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.reservations[id] = "pending"
}

func (s *MemoryStore) Ingredient(id int64) (domain.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ing, ok := s.state.ingredients[id]
	return ing, ok
}

// OptionStock reports the remaining pieces of a size option.
func (s *MemoryStore) OptionStock(ref domain.OptionRef) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.optionStock[ref]
}

func (s *MemoryStore) Table(name string) (domain.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.tables[name]
	return t, ok
}

func (s *MemoryStore) Reservation(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.reservations[id]
}

// OpenOrders counts open orders per table name.
func (s *MemoryStore) OpenOrders() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int{}
	for _, o := range s.state.orders {
		if o.TableName != nil && o.Status.IsOpen() {
			out[*o.TableName]++
		}
	}
	return out
}

type memTx struct {
	st *memState
}

func (t *memTx) Tables() service.TableRepository    { return &memTables{st: t.st} }
func (t *memTx) Orders() service.OrderRepository    { return &memOrders{st: t.st} }
func (t *memTx) Stock() service.StockRepository     { return &memStock{st: t.st} }
func (t *memTx) Catalog() service.CatalogRepository { return &memCatalog{st: t.st} }

type memTables struct{ st *memState }

func (r *memTables) LockByName(_ context.Context, name string) (*domain.Table, error) {
	t, ok := r.st.tables[name]
	if !ok {
		return nil, domain.ErrTableNotFound
	}
	return &t, nil
}

func (r *memTables) SetStatus(_ context.Context, name string, status domain.TableStatus) error {
	t, ok := r.st.tables[name]
	if !ok {
		return domain.ErrTableNotFound
	}
	t.Status = status
	r.st.tables[name] = t
	return nil
}

func (r *memTables) List(_ context.Context) ([]domain.Table, error) {
	out := make([]domain.Table, 0, len(r.st.tables))
	for _, t := range r.st.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Zone != out[j].Zone {
			return out[i].Zone < out[j].Zone
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type memOrders struct{ st *memState }

func (r *memOrders) Find(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (r *memOrders) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.Find(ctx, id)
}

func (r *memOrders) FindOpenByTable(_ context.Context, tableName string) (*domain.Order, error) {
	var found *domain.Order
	for _, o := range r.st.orders {
		if o.TableName == nil || *o.TableName != tableName || !o.Status.IsOpen() {
			continue
		}
		if found == nil || o.ID > found.ID {
			o := o
			found = &o
		}
	}
	return found, nil
}

func (r *memOrders) openConflict(o *domain.Order) bool {
	if o.TableName == nil || !o.Status.IsOpen() {
		return false
	}
	for _, other := range r.st.orders {
		if other.ID != o.ID && other.TableName != nil && *other.TableName == *o.TableName && other.Status.IsOpen() {
			return true
		}
	}
	return false
}

func (r *memOrders) Create(_ context.Context, o *domain.Order) error {
	if r.openConflict(o) {
		return domain.ErrTableConflict
	}
	r.st.nextOrderID++
	now := time.Now().UTC()
	o.ID = r.st.nextOrderID
	o.CreatedAt, o.UpdatedAt = now, now
	stored := *o
	stored.Items = nil
	r.st.orders[o.ID] = stored
	return nil
}

func (r *memOrders) Update(_ context.Context, o *domain.Order) error {
	if _, ok := r.st.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	if r.openConflict(o) {
		return domain.ErrTableConflict
	}
	o.UpdatedAt = time.Now().UTC()
	stored := *o
	stored.Items = nil
	r.st.orders[o.ID] = stored
	return nil
}

func (r *memOrders) InsertItems(_ context.Context, orderID int64, items []domain.OrderItem) error {
	if _, ok := r.st.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	for i := range items {
		r.st.nextItemID++
		items[i].ID = r.st.nextItemID
		items[i].OrderID = orderID
		items[i].CreatedAt = time.Now().UTC()
		r.st.items[orderID] = append(r.st.items[orderID], items[i])
	}
	return nil
}

func (r *memOrders) MarkItemsServed(_ context.Context, orderID int64) (int64, error) {
	var n int64
	items := r.st.items[orderID]
	for i := range items {
		if items[i].Status != domain.ItemServed {
			items[i].Status = domain.ItemServed
			n++
		}
	}
	return n, nil
}

func (r *memOrders) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = append([]domain.OrderItem(nil), r.st.items[id]...)
	return o, nil
}

func (r *memOrders) ReservationStatus(_ context.Context, reservationID int64) (string, error) {
	status, ok := r.st.reservations[reservationID]
	if !ok {
		return "", domain.ErrReservationNotFound
	}
	return status, nil
}

func (r *memOrders) CompleteReservation(_ context.Context, reservationID int64) error {
	if _, ok := r.st.reservations[reservationID]; !ok {
		return domain.ErrReservationNotFound
	}
	r.st.reservations[reservationID] = "completed"
	return nil
}

type memStock struct{ st *memState }

func (r *memStock) LockIngredients(_ context.Context, ids []int64) ([]domain.Ingredient, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []domain.Ingredient
	for _, id := range sorted {
		if ing, ok := r.st.ingredients[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (r *memStock) Decrement(_ context.Context, ingredientID int64, qty decimal.Decimal) error {
	ing, ok := r.st.ingredients[ingredientID]
	if !ok {
		return &domain.IngredientNotFoundError{IDs: []int64{ingredientID}}
	}
	ing.TotalQuantity = ing.TotalQuantity.Sub(qty)
	r.st.ingredients[ingredientID] = ing
	return nil
}

func (r *memStock) LockOptions(_ context.Context, refs []domain.OptionRef) ([]domain.Option, error) {
	var out []domain.Option
	for _, ref := range refs {
		opt, ok := r.st.options[ref]
		if !ok || !opt.SizeOption {
			continue
		}
		opt.StockQuantity = r.st.optionStock[ref]
		out = append(out, opt)
	}
	return out, nil
}

func (r *memStock) DecrementOption(_ context.Context, ref domain.OptionRef, qty int64) error {
	if _, ok := r.st.optionStock[ref]; !ok {
		return domain.NewValidationError("options", "unknown size option %d", ref.ID)
	}
	r.st.optionStock[ref] -= qty
	return nil
}

type memCatalog struct{ st *memState }

func (r *memCatalog) Products(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *memCatalog) Options(_ context.Context, refs []domain.OptionRef) (map[domain.OptionRef]domain.Option, error) {
	out := make(map[domain.OptionRef]domain.Option, len(refs))
	for _, ref := range refs {
		if o, ok := r.st.options[ref]; ok {
			if o.SizeOption {
				o.StockQuantity = r.st.optionStock[ref]
			}
			out[ref] = o
		}
	}
	return out, nil
}

func (r *memCatalog) Recipes(_ context.Context, productIDs []int64, refs []domain.OptionRef) (domain.RecipeBook, error) {
	book := domain.NewRecipeBook()
	for _, id := range productIDs {
		if lines, ok := r.st.productRecipes[id]; ok {
			book.Products[id] = lines
		}
	}
	for _, ref := range refs {
		if lines, ok := r.st.optionRecipes[ref]; ok {
			book.Options[ref] = lines
		}
	}
	return book, nil
}
