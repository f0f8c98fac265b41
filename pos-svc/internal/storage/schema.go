package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tables (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE,
		zone VARCHAR(50),
		seats INTEGER NOT NULL DEFAULT 4,
		status VARCHAR(20) NOT NULL DEFAULT 'available'
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		total_quantity NUMERIC(12, 3) NOT NULL DEFAULT 0 CHECK (total_quantity >= 0),
		unit VARCHAR(20)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price NUMERIC(10, 2) NOT NULL DEFAULT 0,
		is_available BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_ingredients (
		id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
		quantity_used NUMERIC(12, 3) NOT NULL CHECK (quantity_used > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS product_options (
		id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		price_modifier NUMERIC(10, 2) NOT NULL DEFAULT 0,
		recipe_multiplier NUMERIC(6, 2) NOT NULL DEFAULT 1.00,
		is_size_option BOOLEAN NOT NULL DEFAULT FALSE,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS option_recipes (
		id SERIAL PRIMARY KEY,
		option_id INTEGER NOT NULL REFERENCES product_options(id) ON DELETE CASCADE,
		ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
		quantity_used NUMERIC(12, 3) NOT NULL CHECK (quantity_used > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS global_options (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price_modifier NUMERIC(10, 2) NOT NULL DEFAULT 0,
		recipe_multiplier NUMERIC(6, 2) NOT NULL DEFAULT 1.00,
		is_size_option BOOLEAN NOT NULL DEFAULT FALSE,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`ALTER TABLE product_options ADD COLUMN IF NOT EXISTS is_size_option BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE product_options ADD COLUMN IF NOT EXISTS stock_quantity INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE global_options ADD COLUMN IF NOT EXISTS is_size_option BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE global_options ADD COLUMN IF NOT EXISTS stock_quantity INTEGER NOT NULL DEFAULT 0`,
	`CREATE TABLE IF NOT EXISTS global_option_recipes (
		id SERIAL PRIMARY KEY,
		global_option_id INTEGER NOT NULL REFERENCES global_options(id) ON DELETE CASCADE,
		ingredient_id INTEGER NOT NULL REFERENCES ingredients(id),
		quantity_used NUMERIC(12, 3) NOT NULL CHECK (quantity_used > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id SERIAL PRIMARY KEY,
		table_name VARCHAR(50),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		table_name VARCHAR(50) REFERENCES tables(name) ON UPDATE CASCADE,
		order_type VARCHAR(20) NOT NULL DEFAULT 'dine_in',
		status VARCHAR(20) NOT NULL DEFAULT 'cooking',
		subtotal NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (subtotal >= 0),
		discount_amount NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
		tax_amount NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (tax_amount >= 0),
		grand_total NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (grand_total >= 0),
		total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
		payment_method VARCHAR(30),
		reservation_id INTEGER REFERENCES reservations(id),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + openOrderIndex + `
		ON orders (table_name)
		WHERE status IN ('cooking', 'served', 'ready')`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL,
		product_name VARCHAR(100) NOT NULL,
		price NUMERIC(10, 2) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		status VARCHAR(20) NOT NULL DEFAULT 'cooking',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_item_options (
		id SERIAL PRIMARY KEY,
		order_item_id INTEGER NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
		option_id INTEGER NOT NULL,
		is_global BOOLEAN NOT NULL DEFAULT FALSE,
		option_name VARCHAR(100) NOT NULL,
		price_modifier NUMERIC(10, 2) NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema creates the tables and indexes the store needs.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, c := range stmt {
		if c == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
