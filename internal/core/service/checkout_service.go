package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/port"
)

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnknownProduct  = errors.New("unknown product")
)

type OrderLine struct {
	ProductID string
	Quantity  int
}

type CheckoutResult struct {
	OrderID         string
	PaymentIntentID string
	ClientSecret    string
	TotalCents      int64
}

// CheckoutService prices an order against the catalog, provisions a
// provider payment intent, and persists the order with a pending
// payment row for the webhook reconciler to complete later.
type CheckoutService struct {
	db       port.DatabaseRepository
	provider port.PaymentProvider
}

func NewCheckoutService(db port.DatabaseRepository, provider port.PaymentProvider) *CheckoutService {
	return &CheckoutService{db: db, provider: provider}
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, lines []OrderLine) (*CheckoutResult, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.db.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	orderID := uuid.New().String()
	var total int64
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
		}
		total += product.PriceCents * int64(line.Quantity)
		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	intentID, clientSecret, err := s.provider.CreateIntent(ctx, total, "usd")
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	now := time.Now()
	order := domain.Order{
		ID:         orderID,
		UserID:     userID,
		TotalCents: total,
		CreatedAt:  now,
	}
	payment := domain.Payment{
		ID:              uuid.New().String(),
		OrderID:         orderID,
		PaymentIntentID: intentID,
		Status:          domain.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.db.CreateOrder(ctx, order, items, payment); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	return &CheckoutResult{
		OrderID:         orderID,
		PaymentIntentID: intentID,
		ClientSecret:    clientSecret,
		TotalCents:      total,
	}, nil
}
