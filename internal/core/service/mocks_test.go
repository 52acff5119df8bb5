package service

import (
	"context"
	"sync"
	"time"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
)

// Mock DatabaseRepository. Reconciliation mimics the store's locked
// check-then-apply semantics under a mutex so concurrency tests behave
// like the real transaction.
type mockDatabaseRepo struct {
	mu         sync.Mutex
	payments   map[string]string // payment intent id -> order id
	paidOrders map[string]bool
	items      map[string][]domain.OrderItem // order id -> line items
	stock      map[string]int
	products   map[string]domain.Product

	orders        []domain.Order
	storedPayment *domain.Payment

	reconcileCalls int
	reconcileErr   error
	createErr      error
}

func newMockDatabaseRepo() *mockDatabaseRepo {
	return &mockDatabaseRepo{
		payments:   make(map[string]string),
		paidOrders: make(map[string]bool),
		items:      make(map[string][]domain.OrderItem),
		stock:      make(map[string]int),
		products:   make(map[string]domain.Product),
	}
}

func (m *mockDatabaseRepo) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem, payment domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.orders = append(m.orders, order)
	m.items[order.ID] = items
	m.payments[payment.PaymentIntentID] = order.ID
	m.storedPayment = &payment
	return nil
}

func (m *mockDatabaseRepo) ReconcilePaymentSucceeded(ctx context.Context, paymentIntentID string, paidAt time.Time) (*domain.Reconciliation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reconcileCalls++
	if m.reconcileErr != nil {
		return nil, m.reconcileErr
	}

	orderID, ok := m.payments[paymentIntentID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	if m.paidOrders[orderID] {
		return &domain.Reconciliation{OrderID: orderID, Duplicate: true}, nil
	}

	m.paidOrders[orderID] = true
	items := m.items[orderID]
	for _, item := range items {
		m.stock[item.ProductID] -= item.Quantity
	}
	return &domain.Reconciliation{OrderID: orderID, Items: items}, nil
}

func (m *mockDatabaseRepo) GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := make(map[string]domain.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (m *mockDatabaseRepo) GetProductStock(ctx context.Context, productID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stock, ok := m.stock[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	return stock, nil
}

func (m *mockDatabaseRepo) ListProductStock(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stocks := make(map[string]int, len(m.stock))
	for id, stock := range m.stock {
		stocks[id] = stock
	}
	return stocks, nil
}

// Mock CacheRepository
type mockCacheRepo struct {
	mu        sync.Mutex
	stock     map[string]int
	processed map[string]bool

	readErr  error
	writeErr error
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		stock:     make(map[string]int),
		processed: make(map[string]bool),
	}
}

func (m *mockCacheRepo) SetStock(ctx context.Context, productID string, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.stock[productID] = stock
	return nil
}

func (m *mockCacheRepo) DecrementStock(ctx context.Context, productID string, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return false, m.writeErr
	}
	current, ok := m.stock[productID]
	if !ok || current < quantity {
		return false, nil
	}
	m.stock[productID] = current - quantity
	return true, nil
}

func (m *mockCacheRepo) GetStock(ctx context.Context, productID string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return 0, false, m.readErr
	}
	stock, ok := m.stock[productID]
	return stock, ok, nil
}

func (m *mockCacheRepo) MarkEventProcessed(ctx context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return false, m.writeErr
	}
	if m.processed[eventID] {
		return false, nil
	}
	m.processed[eventID] = true
	return true, nil
}

func (m *mockCacheRepo) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return false, m.readErr
	}
	return m.processed[eventID], nil
}

// Stub PaymentProvider
type stubPaymentProvider struct {
	intentID     string
	clientSecret string
	err          error

	calls        int
	lastAmount   int64
	lastCurrency string
}

func (s *stubPaymentProvider) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, string, error) {
	s.calls++
	s.lastAmount = amountCents
	s.lastCurrency = currency
	if s.err != nil {
		return "", "", s.err
	}
	return s.intentID, s.clientSecret, nil
}
