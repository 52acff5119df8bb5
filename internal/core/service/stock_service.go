package service

import (
	"context"
	"fmt"
	"log"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/port"
)

// StockService serves product stock reads from the cache with the
// database as fallback and source of truth.
type StockService struct {
	db    port.DatabaseRepository
	cache port.CacheRepository
}

func NewStockService(db port.DatabaseRepository, cache port.CacheRepository) *StockService {
	return &StockService{db: db, cache: cache}
}

func (s *StockService) GetStock(ctx context.Context, productID string) (int, error) {
	stock, ok, err := s.cache.GetStock(ctx, productID)
	if err != nil {
		log.Printf("stock cache read failed for %s: %v", productID, err)
	} else if ok {
		return stock, nil
	}

	stock, err = s.db.GetProductStock(ctx, productID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.SetStock(ctx, productID, stock); err != nil {
		log.Printf("stock cache backfill failed for %s: %v", productID, err)
	}

	return stock, nil
}

// SeedCache loads every product's stock into the cache. Called once at
// startup so cached reads and webhook mirroring start from store state.
func (s *StockService) SeedCache(ctx context.Context) error {
	stocks, err := s.db.ListProductStock(ctx)
	if err != nil {
		return fmt.Errorf("list product stock: %w", err)
	}

	for id, stock := range stocks {
		if err := s.cache.SetStock(ctx, id, stock); err != nil {
			return fmt.Errorf("seed stock for %s: %w", id, err)
		}
	}

	return nil
}
