// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"gymbook/config"

	"github.com/go-redis/redis/v8"
)

// LockClient backs the sweep leases shared between replicas.
var LockClient *redis.Client

// InitRedis connects the lock client using REDIS_LOCK_DB.
func InitRedis() error {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LockClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis (lock): %w", err)
	}
	return nil
}

// GetLockClient returns the lock client, connecting on first use.
func GetLockClient() (*redis.Client, error) {
	if LockClient == nil {
		if err := InitRedis(); err != nil {
			return nil, err
		}
	}
	return LockClient, nil
}
