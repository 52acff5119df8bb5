package port

import (
	"context"
	"time"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
)

type DatabaseRepository interface {
	// CreateOrder persists an order, its line items, and a pending payment
	// in a single transaction
	CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem, payment domain.Payment) error

	// ReconcilePaymentSucceeded marks the payment and its order paid and
	// decrements product stock per line item, all in one transaction with
	// the payment row locked. Returns domain.ErrPaymentNotFound when no
	// payment matches the intent id; a duplicate delivery commits without
	// touching stock and reports Duplicate.
	ReconcilePaymentSucceeded(ctx context.Context, paymentIntentID string, paidAt time.Time) (*domain.Reconciliation, error)

	// GetProducts retrieves products by id for pricing at checkout
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)

	// GetProductStock reads a single product's stock count
	GetProductStock(ctx context.Context, productID string) (int, error)

	// ListProductStock reads every product's stock count for cache seeding
	ListProductStock(ctx context.Context) (map[string]int, error)
}
