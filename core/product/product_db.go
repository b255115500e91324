package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no product exists under the requested id.
var ErrNotFound = errors.New("product not found")

const listQuery = `
	SELECT product_id, name, description, price, img_name, sku, unit, supplier_id, discount, created_at, updated_at
	FROM products
	ORDER BY product_id`

const fetchQuery = `
	SELECT product_id, name, description, price, img_name, sku, unit, supplier_id, discount, created_at, updated_at
	FROM products
	WHERE product_id = $1`

// List returns the whole catalog ordered by product id.
func List(ctx context.Context, db *sqlx.DB) ([]Product, error) {
	products := []Product{}
	if err := db.SelectContext(ctx, &products, listQuery); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}
	return products, nil
}

// Fetch returns one product or ErrNotFound.
func Fetch(ctx context.Context, db *sqlx.DB, productID int) (Product, error) {
	var p Product
	if err := db.GetContext(ctx, &p, fetchQuery, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%d]: %w", productID, err)
	}
	return p, nil
}
