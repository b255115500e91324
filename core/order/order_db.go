package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no order exists under the requested id.
var ErrNotFound = errors.New("order not found")

const createQuery = `
	INSERT INTO orders (id, order_id, branch_id, order_date, name, description, status, created_at)
	VALUES (:id, :order_id, :branch_id, :order_date, :name, :description, :status, :created_at)`

const listQuery = `
	SELECT id, order_id, branch_id, order_date, name, description, status, created_at
	FROM orders
	ORDER BY created_at`

const fetchQuery = `
	SELECT id, order_id, branch_id, order_date, name, description, status, created_at
	FROM orders
	WHERE order_id = $1`

// Create inserts the order within the caller's transaction.
func Create(ctx context.Context, tx sqlx.ExtContext, ord Order) error {
	if _, err := sqlx.NamedExecContext(ctx, tx, createQuery, ord); err != nil {
		return fmt.Errorf("inserting order[%d]: %w", ord.OrderID, err)
	}
	return nil
}

// List returns all orders, oldest first.
func List(ctx context.Context, db *sqlx.DB) ([]Order, error) {
	orders := []Order{}
	if err := db.SelectContext(ctx, &orders, listQuery); err != nil {
		return nil, fmt.Errorf("selecting orders: %w", err)
	}
	return orders, nil
}

// Fetch returns the order with the given public id or ErrNotFound.
func Fetch(ctx context.Context, db *sqlx.DB, orderID int64) (Order, error) {
	var ord Order
	if err := db.GetContext(ctx, &ord, fetchQuery, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("selecting order[%d]: %w", orderID, err)
	}
	return ord, nil
}
