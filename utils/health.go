package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy is false when any configured dependency failed its last ping.
func (h HealthStatus) Healthy() bool {
	if !h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth = HealthStatus{Mongo: true}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory
// state until ctx ends. A nil mongo client counts as healthy (memory driver).
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var redisHealth []bool
		for _, client := range redisClients {
			err := client.Ping(pingCtx).Err()
			redisHealth = append(redisHealth, err == nil)
		}

		mongoHealthy := true
		if mongoClient != nil {
			mongoHealthy = mongoClient.Ping(pingCtx, nil) == nil
		}

		mu.Lock()
		currentHealth = HealthStatus{
			Mongo:     mongoHealthy,
			Redis:     redisHealth,
			CheckedAt: time.Now(),
		}
		mu.Unlock()
	}

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		check()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()
}
