package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/domain"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/port"
)

// WebhookService reconciles verified payment-provider events against
// order, payment, and stock state. The provider delivers events at
// least once, so every path here must tolerate re-delivery.
type WebhookService struct {
	db    port.DatabaseRepository
	cache port.CacheRepository
}

func NewWebhookService(db port.DatabaseRepository, cache port.CacheRepository) *WebhookService {
	return &WebhookService{db: db, cache: cache}
}

// HandleEvent applies a verified event to local state. Only succeeded
// payment intents mutate anything; other event types return nil so the
// caller acknowledges them and the provider stops retrying.
func (s *WebhookService) HandleEvent(ctx context.Context, event domain.PaymentEvent) error {
	if event.Type != domain.EventPaymentSucceeded {
		return nil
	}

	// Fast path: skip the transaction when this delivery was already
	// applied. The ledger is advisory only; the locked paid_at check in
	// the store is the authoritative duplicate guard.
	if event.ID != "" {
		seen, err := s.cache.SeenEvent(ctx, event.ID)
		if err != nil {
			log.Printf("event ledger lookup failed for %s: %v", event.ID, err)
		} else if seen {
			return nil
		}
	}

	rec, err := s.db.ReconcilePaymentSucceeded(ctx, event.PaymentIntentID, time.Now())
	if err != nil {
		return fmt.Errorf("reconcile payment intent %s: %w", event.PaymentIntentID, err)
	}

	// Only record the event after the commit, so a failed delivery is
	// never deduplicated when the provider retries it.
	if event.ID != "" {
		if _, err := s.cache.MarkEventProcessed(ctx, event.ID); err != nil {
			log.Printf("event ledger write failed for %s: %v", event.ID, err)
		}
	}

	if rec.Duplicate {
		log.Printf("duplicate delivery for payment intent %s, order %s already paid", event.PaymentIntentID, rec.OrderID)
		return nil
	}

	// Mirror the decrements into the stock cache. Best effort: the store
	// already committed and remains the source of truth.
	for _, item := range rec.Items {
		if _, err := s.cache.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("stock cache sync failed for product %s: %v", item.ProductID, err)
		}
	}

	log.Printf("order %s marked paid via payment intent %s", rec.OrderID, event.PaymentIntentID)
	return nil
}
