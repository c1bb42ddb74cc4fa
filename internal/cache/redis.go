package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	FleetBoardKey     = "fleet:board"
	TariffTableKeyFmt = "tariff:%s:%d"
)

var client *redis.Client

// Init initializes the Redis connection. On failure the client stays nil and
// every cache call turns into a miss, so the server runs without Redis.
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when Init failed.
func GetClient() *redis.Client {
	return client
}

func tariffKey(ownerKind string, ownerID int) string {
	return fmt.Sprintf(TariffTableKeyFmt, ownerKind, ownerID)
}

// GetCachedTariff returns a cached serialized tariff table if available.
func GetCachedTariff(ctx context.Context, ownerKind string, ownerID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, tariffKey(ownerKind, ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheTariff caches a serialized tariff table for 10 minutes. Price edits
// call InvalidateTariff, the TTL only covers out-of-band database changes.
func CacheTariff(ctx context.Context, ownerKind string, ownerID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, tariffKey(ownerKind, ownerID), data, 10*time.Minute)
}

// InvalidateTariff drops a cached tariff table after a price change.
func InvalidateTariff(ctx context.Context, ownerKind string, ownerID int) {
	if client == nil {
		return
	}
	client.Del(ctx, tariffKey(ownerKind, ownerID))
}

// GetCachedFleetBoard returns the cached fleet board snapshot if available.
func GetCachedFleetBoard(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, FleetBoardKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheFleetBoard caches the fleet board snapshot for 30 seconds.
func CacheFleetBoard(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, FleetBoardKey, data, 30*time.Second)
}

// InvalidateFleetBoard drops the snapshot after any vehicle state change.
func InvalidateFleetBoard(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, FleetBoardKey)
}
