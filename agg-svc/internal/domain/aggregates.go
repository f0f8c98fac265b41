package domain

import "time"

// ProductSales is one row of the daily best-seller board.
type ProductSales struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// StockAlert is the last low-stock level reported for an ingredient.
type StockAlert struct {
	StockLevel
	ReportedAt time.Time `json:"reported_at"`
}
