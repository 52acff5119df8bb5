package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		price_cents BIGINT NOT NULL,
		stock INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		total_cents BIGINT NOT NULL,
		paid_at DATETIME NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id VARCHAR(64) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		quantity INT NOT NULL,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id VARCHAR(64) PRIMARY KEY,
		order_id VARCHAR(64) NOT NULL,
		payment_intent_id VARCHAR(255) NOT NULL UNIQUE,
		payment_status VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// EnsureSchema creates the store tables if they do not exist yet.
// Statements run one at a time; the driver executes single statements.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem, payment domain.Payment) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total_cents, paid_at, created_at)
		VALUES (?, ?, ?, NULL, ?)`,
		order.ID, order.UserID, order.TotalCents, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity)
			VALUES (?, ?, ?)`,
			item.OrderID, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, payment_intent_id, payment_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.OrderID, payment.PaymentIntentID, payment.Status,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return tx.Commit()
}

// ReconcilePaymentSucceeded applies the paid transition for a payment
// intent in one transaction. The payment row is locked first, so
// concurrent deliveries of the same event serialize here and the loser
// sees paid_at already set.
func (m *MySQLAdapter) ReconcilePaymentSucceeded(ctx context.Context, paymentIntentID string, paidAt time.Time) (*domain.Reconciliation, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var orderID string
	err = tx.QueryRowContext(ctx, `
		SELECT order_id FROM payments WHERE payment_intent_id = ? FOR UPDATE`,
		paymentIntentID,
	).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET payment_status = ?, updated_at = ? WHERE payment_intent_id = ?`,
		domain.PaymentStatusPaid, paidAt, paymentIntentID,
	)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	var alreadyPaid sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT paid_at FROM orders WHERE id = ? FOR UPDATE`, orderID,
	).Scan(&alreadyPaid)
	if err != nil {
		return nil, fmt.Errorf("lock order %s: %w", orderID, err)
	}

	if alreadyPaid.Valid {
		// Duplicate delivery. Re-marking the payment paid is harmless,
		// re-decrementing stock is not, so stop here.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		return &domain.Reconciliation{OrderID: orderID, Duplicate: true}, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET paid_at = ? WHERE id = ?`, paidAt, orderID)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}

	var items []domain.OrderItem
	for rows.Next() {
		item := domain.OrderItem{OrderID: orderID}
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	// Release the result set before issuing updates on the same tx conn.
	rows.Close()

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - ? WHERE id = ?`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &domain.Reconciliation{OrderID: orderID, Items: items}, nil
}

func (m *MySQLAdapter) GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price_cents, stock FROM products WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (m *MySQLAdapter) GetProductStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := m.db.QueryRowContext(ctx, `
		SELECT stock FROM products WHERE id = ?`, productID,
	).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return stock, nil
}

func (m *MySQLAdapter) ListProductStock(ctx context.Context) (map[string]int, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, stock FROM products`)
	if err != nil {
		return nil, fmt.Errorf("query product stock: %w", err)
	}
	defer rows.Close()

	stocks := make(map[string]int)
	for rows.Next() {
		var id string
		var stock int
		if err := rows.Scan(&id, &stock); err != nil {
			return nil, fmt.Errorf("scan product stock: %w", err)
		}
		stocks[id] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product stock: %w", err)
	}

	return stocks, nil
}
