package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix = "stock:"
	eventKeyPrefix = "webhook:event:"

	// Stripe retries failed deliveries for up to three days, so keep
	// ledger entries a little longer than that.
	eventLedgerTTL = 96 * time.Hour
)

var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current >= quantity then
	redis.call('DECRBY', key, quantity)
	return 1
end

return 0
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetStock(ctx context.Context, productID string, stock int) error {
	return r.client.Set(ctx, stockKeyPrefix+productID, stock, 0).Err()
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, productID string, quantity int) (bool, error) {
	result, err := decrementStockScript.Run(ctx, r.client, []string{stockKeyPrefix + productID}, quantity).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (r *RedisAdapter) GetStock(ctx context.Context, productID string) (int, bool, error) {
	stock, err := r.client.Get(ctx, stockKeyPrefix+productID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return stock, true, nil
}

func (r *RedisAdapter) MarkEventProcessed(ctx context.Context, eventID string) (bool, error) {
	return r.client.SetNX(ctx, eventKeyPrefix+eventID, 1, eventLedgerTTL).Result()
}

func (r *RedisAdapter) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	n, err := r.client.Exists(ctx, eventKeyPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
