package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Inventory summary cache keys
const (
	InventorySummaryKey = "inventory:summary"
	DailyStatsKeyFmt    = "stats:daily:%s:%s"
)

var client *redis.Client

// Init initializes the Redis connection
func Init(host string, port int, password string) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// ============================================
// Cache Invalidation Functions
// ============================================

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// ============================================
// Entity-Based Cache Invalidators
// ============================================

// InvalidateSupplierCaches clears all supplier-related caches
// Called when: CreateSupplier, UpdateSupplier, DeleteSupplier
func InvalidateSupplierCaches(ctx context.Context) {
	InvalidatePattern(ctx, "suppliers:*")
	InvalidateKeys(ctx, InventorySummaryKey)
}

// InvalidateBuyerCaches clears all buyer-related caches
// Called when: CreateBuyer, UpdateBuyer, DeleteBuyer
func InvalidateBuyerCaches(ctx context.Context) {
	InvalidatePattern(ctx, "buyers:*")
}

// InvalidateCategoryCaches clears all category-related caches
// Called when: CreateCategory, UpdateCategory, DeleteCategory,
// AddSubProduct, RemoveSubProduct
func InvalidateCategoryCaches(ctx context.Context) {
	InvalidatePattern(ctx, "categories:*")
	InvalidateKeys(ctx, InventorySummaryKey)
}

// InvalidateInventoryCaches clears stock and summary caches
// Called when: any stock ledger mutation (purchases, batches, orders,
// adjustments, reconstruction)
func InvalidateInventoryCaches(ctx context.Context) {
	InvalidatePattern(ctx, "inventory:*")
	InvalidatePattern(ctx, "stock:*")
}

// InvalidateStatsCaches clears daily and category stat caches
// Called when: RecordProductionBatch, RecordBatchResult replay
func InvalidateStatsCaches(ctx context.Context) {
	InvalidatePattern(ctx, "stats:*")
}

// InvalidatePurchaseCaches clears purchase list caches
// Called when: CreatePurchase, UpdatePurchase, DeletePurchase
func InvalidatePurchaseCaches(ctx context.Context) {
	InvalidatePattern(ctx, "purchases:*")
	InvalidateInventoryCaches(ctx)
}

// InvalidateProductionCaches clears production batch caches
// Called when: RecordProductionBatch, UpdateBatch, DeleteBatch
func InvalidateProductionCaches(ctx context.Context) {
	InvalidatePattern(ctx, "production:*")
	InvalidateInventoryCaches(ctx)
	InvalidateStatsCaches(ctx)
}

// InvalidateOrderCaches clears order caches
// Called when: CreateOrder, CancelOrder
func InvalidateOrderCaches(ctx context.Context) {
	InvalidatePattern(ctx, "orders:*")
	InvalidateInventoryCaches(ctx)
}

// InvalidateUserCaches clears all user-related caches
// Called when: CreateUser, UpdateUser, DeleteUser
func InvalidateUserCaches(ctx context.Context) {
	InvalidatePattern(ctx, "users:*")
}

// InvalidateSettingCaches clears all setting-related caches
// Called when: UpdateSetting
func InvalidateSettingCaches(ctx context.Context) {
	InvalidatePattern(ctx, "settings:*")
}

// ============================================
// Pre-warm Cache Functions
// ============================================

// PreWarmCallback is a function that populates a cache key
type PreWarmCallback func(ctx context.Context) ([]byte, error)

// preWarmCallbacks stores functions to pre-warm cache on startup
var preWarmCallbacks = make(map[string]PreWarmCallback)

// RegisterPreWarm registers a callback to pre-warm a cache key
// This should be called during handler initialization
func RegisterPreWarm(key string, callback PreWarmCallback) {
	preWarmCallbacks[key] = callback
}

// PreWarmCache pre-warms registered cache keys on startup
// Runs in background, non-blocking
func PreWarmCache() {
	if client == nil {
		return
	}

	ctx := context.Background()

	for key, callback := range preWarmCallbacks {
		// Check if already cached (another pod may have done it)
		if _, ok := GetCached(ctx, key); ok {
			continue
		}

		data, err := callback(ctx)
		if err != nil {
			continue
		}

		ttl := 10 * time.Minute // default
		if len(key) > 9 && key[:9] == "settings:" {
			ttl = 24 * time.Hour
		} else if len(key) > 6 && key[:6] == "stats:" {
			ttl = 5 * time.Minute
		}

		SetCached(ctx, key, data, ttl)
	}
}

// PreWarmKey pre-warms a specific cache key in the background
// Called after cache invalidation to ensure next request is fast
func PreWarmKey(key string, fetcher func(ctx context.Context) ([]byte, error), ttl time.Duration) {
	if client == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data, err := fetcher(ctx)
		if err != nil {
			// Next request will just fetch from DB
			return
		}

		SetCached(ctx, key, data, ttl)
	}()
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
