package port

import "context"

type CacheRepository interface {
	// SetStock writes a product's cached stock count
	SetStock(ctx context.Context, productID string, stock int) error

	// DecrementStock atomically decreases cached stock, returns false if
	// the key is missing or the stock is insufficient
	DecrementStock(ctx context.Context, productID string, quantity int) (bool, error)

	// GetStock reads cached stock; the bool reports whether the key exists
	GetStock(ctx context.Context, productID string) (int, bool, error)

	// MarkEventProcessed records a delivered event id, returns false if it
	// was already recorded
	MarkEventProcessed(ctx context.Context, eventID string) (bool, error)

	// SeenEvent reports whether an event id was already recorded
	SeenEvent(ctx context.Context, eventID string) (bool, error)
}
