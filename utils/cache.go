// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"strings"
	"time"

	"clinicbook/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// AvailabilityCachePrefix namespaces all cached availability responses. Every
// state-changing booking operation flushes this namespace.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL bounds staleness between a cached read and the next
// invalidating commit.
const AvailabilityCacheTTL = 60 * time.Second

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// AvailabilityCacheKey builds the cache key for one (clinic, treatment, date, time) slot.
func AvailabilityCacheKey(clinicID, treatmentID, date, timeOfDay string) string {
	parts := []string{clinicID, treatmentID, date, timeOfDay}
	return AvailabilityCachePrefix + strings.Join(parts, ":")
}

// AvailabilityCache flushes the availability namespace after booking state
// changes. It satisfies the booking service's CacheInvalidator.
type AvailabilityCache struct {
	Client *redis.Client
}

// InvalidateAvailability deletes every key under the availability namespace.
func (ac *AvailabilityCache) InvalidateAvailability(ctx context.Context) error {
	var keys []string
	iter := ac.Client.Scan(ctx, 0, AvailabilityCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return ac.Client.Del(ctx, keys...).Err()
}
