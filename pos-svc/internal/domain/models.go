package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableBill      TableStatus = "bill"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableBill:
		return true
	}
	return false
}

type Table struct {
	ID     int64       `json:"id"`
	Name   string      `json:"table_name"`
	Zone   string      `json:"zone"`
	Seats  int         `json:"seats"`
	Status TableStatus `json:"status"`
}

func NewTable(name, zone string, seats int) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("table_name", "is required")
	}
	if seats < 0 {
		return nil, NewValidationError("seats", "must not be negative")
	}
	return &Table{Name: name, Zone: strings.TrimSpace(zone), Seats: seats, Status: TableAvailable}, nil
}

type OrderType string

const (
	DineIn   OrderType = "dine_in"
	Takeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool {
	return t == DineIn || t == Takeaway
}

// ServedStatus is the order status reached once every item is served.
func (t OrderType) ServedStatus() OrderStatus {
	if t == Takeaway {
		return OrderReady
	}
	return OrderServed
}

type OrderStatus string

const (
	OrderCooking   OrderStatus = "cooking"
	OrderServed    OrderStatus = "served"
	OrderReady     OrderStatus = "ready"
	OrderPaid      OrderStatus = "paid"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OpenStatuses are the statuses in which an order still holds its table.
var OpenStatuses = []OrderStatus{OrderCooking, OrderServed, OrderReady}

func (s OrderStatus) IsOpen() bool {
	for _, open := range OpenStatuses {
		if s == open {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsSettled() bool {
	return s == OrderPaid || s == OrderCompleted
}

type ItemStatus string

const (
	ItemCooking ItemStatus = "cooking"
	ItemServed  ItemStatus = "served"
)

type Order struct {
	ID            int64           `json:"id"`
	TableName     *string         `json:"table_name"`
	OrderType     OrderType       `json:"order_type"`
	Status        OrderStatus     `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount_amount"`
	Tax           decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	ReservationID *int64          `json:"reservation_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `json:"items,omitempty"`
}

func NewOrder(tableName *string, orderType OrderType, reservationID *int64) *Order {
	return &Order{
		TableName:     tableName,
		OrderType:     orderType,
		Status:        OrderCooking,
		Subtotal:      decimal.Zero,
		Discount:      decimal.Zero,
		Tax:           decimal.Zero,
		GrandTotal:    decimal.Zero,
		TotalAmount:   decimal.Zero,
		ReservationID: reservationID,
	}
}

func (o *Order) Table() string {
	if o.TableName == nil {
		return ""
	}
	return *o.TableName
}

// AddSubtotal grows the running totals by the value of newly added items.
func (o *Order) AddSubtotal(amount decimal.Decimal, taxRate decimal.Decimal) {
	o.Subtotal = o.Subtotal.Add(amount)
	o.TotalAmount = o.TotalAmount.Add(amount)
	o.Recalculate(taxRate)
}

// ApplyDiscount fixes the settlement figures: tax is charged on the
// discounted subtotal and the grand total becomes the amount paid.
func (o *Order) ApplyDiscount(discount decimal.Decimal, taxRate decimal.Decimal) error {
	if discount.IsNegative() {
		return NewValidationError("discount", "must not be negative")
	}
	if discount.GreaterThan(o.Subtotal) {
		return NewValidationError("discount", "must not exceed subtotal %s", o.Subtotal.StringFixed(2))
	}
	o.Discount = discount
	o.Recalculate(taxRate)
	o.TotalAmount = o.GrandTotal
	return nil
}

func (o *Order) Recalculate(taxRate decimal.Decimal) {
	taxable := o.Subtotal.Sub(o.Discount)
	o.Tax = taxable.Mul(taxRate).Round(2)
	o.GrandTotal = taxable.Add(o.Tax)
}

type OrderItem struct {
	ID          int64             `json:"id"`
	OrderID     int64             `json:"order_id"`
	ProductID   int64             `json:"product_id"`
	ProductName string            `json:"product_name"`
	Price       decimal.Decimal   `json:"price"`
	Quantity    int               `json:"quantity"`
	Status      ItemStatus        `json:"status"`
	Options     []OrderItemOption `json:"options,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewOrderItem snapshots the product name and the unit price including
// option modifiers at the moment of ordering.
func NewOrderItem(product Product, quantity int, options []Option) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, NewValidationError("quantity", "must be positive for product %d", product.ID)
	}
	price := product.Price
	snapshot := make([]OrderItemOption, 0, len(options))
	for _, opt := range options {
		price = price.Add(opt.PriceModifier)
		snapshot = append(snapshot, OrderItemOption{
			OptionID:      opt.ID,
			Global:        opt.Global,
			Name:          opt.Name,
			PriceModifier: opt.PriceModifier,
		})
	}
	if price.IsNegative() {
		return OrderItem{}, NewValidationError("items", "product %d priced below zero with options", product.ID)
	}
	return OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       price,
		Quantity:    quantity,
		Status:      ItemCooking,
		Options:     snapshot,
	}, nil
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderItemOption struct {
	OptionID      int64           `json:"option_id"`
	Global        bool            `json:"is_global"`
	Name          string          `json:"option_name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"is_available"`
}

type Ingredient struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Unit          string          `json:"unit"`
}

func NewIngredient(name string, quantity decimal.Decimal, unit string) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if quantity.IsNegative() {
		return nil, NewValidationError("total_quantity", "must not be negative")
	}
	return &Ingredient{Name: name, TotalQuantity: quantity, Unit: strings.TrimSpace(unit)}, nil
}

// OptionRef addresses either a product-scoped option or a global one.
type OptionRef struct {
	ID     int64
	Global bool
}

type Option struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id,omitempty"`
	Global           bool            `json:"is_global"`
	Name             string          `json:"name"`
	PriceModifier    decimal.Decimal `json:"price_modifier"`
	RecipeMultiplier decimal.Decimal `json:"recipe_multiplier"`
	// SizeOption options carry their own piece count, reserved like an
	// ingredient.
	SizeOption    bool  `json:"is_size_option"`
	StockQuantity int64 `json:"stock_quantity"`
}

func NewOption(id, productID int64, name string, priceModifier, recipeMultiplier decimal.Decimal) (Option, error) {
	if recipeMultiplier.IsZero() {
		recipeMultiplier = decimal.NewFromInt(1)
	}
	if recipeMultiplier.IsNegative() {
		return Option{}, NewValidationError("recipe_multiplier", "must be positive")
	}
	return Option{
		ID:               id,
		ProductID:        productID,
		Global:           productID == 0,
		Name:             strings.TrimSpace(name),
		PriceModifier:    priceModifier,
		RecipeMultiplier: recipeMultiplier,
	}, nil
}

func (o Option) Ref() OptionRef {
	return OptionRef{ID: o.ID, Global: o.Global}
}

// Multiplier treats an unset recipe multiplier as 1.
func (o Option) Multiplier() decimal.Decimal {
	if o.RecipeMultiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return o.RecipeMultiplier
}

type RecipeLine struct {
	IngredientID int64           `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity_used"`
}

func NewRecipeLine(ingredientID int64, quantity decimal.Decimal) (RecipeLine, error) {
	if ingredientID <= 0 {
		return RecipeLine{}, NewValidationError("ingredient_id", "is required")
	}
	if !quantity.IsPositive() {
		return RecipeLine{}, NewValidationError("quantity_used", "must be positive")
	}
	return RecipeLine{IngredientID: ingredientID, Quantity: quantity}, nil
}

// RecipeBook holds the recipes needed to resolve one order request.
type RecipeBook struct {
	Products map[int64][]RecipeLine
	Options  map[OptionRef][]RecipeLine
}

func NewRecipeBook() RecipeBook {
	return RecipeBook{
		Products: map[int64][]RecipeLine{},
		Options:  map[OptionRef][]RecipeLine{},
	}
}

// LineItem is a priced request line ready for recipe resolution.
type LineItem struct {
	ProductID int64
	Quantity  int
	Options   []Option
}

// Demand maps ingredient id to the total quantity required.
type Demand map[int64]decimal.Decimal

func (d Demand) Add(ingredientID int64, qty decimal.Decimal) {
	if cur, ok := d[ingredientID]; ok {
		d[ingredientID] = cur.Add(qty)
		return
	}
	d[ingredientID] = qty
}

// IDs returns ingredient ids in ascending order, the lock order for stock rows.
func (d Demand) IDs() []int64 {
	ids := make([]int64, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OptionDemand maps a size option to the number of pieces required.
type OptionDemand map[OptionRef]int64

// Refs returns product-scoped options before global ones, each by ascending
// id, the lock order for option rows.
func (d OptionDemand) Refs() []OptionRef {
	refs := make([]OptionRef, 0, len(d))
	for ref := range d {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Global != refs[j].Global {
			return !refs[i].Global
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

// Shortage describes one ingredient, or one size option, that cannot cover
// its demand.
type Shortage struct {
	IngredientID int64           `json:"ingredient_id,omitempty"`
	OptionID     int64           `json:"option_id,omitempty"`
	Global       bool            `json:"is_global,omitempty"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Shortfall    decimal.Decimal `json:"shortfall"`
}

type PlaceResult struct {
	OrderID     int64           `json:"order_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Appended    bool            `json:"appended"`
}
