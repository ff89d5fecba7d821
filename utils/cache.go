// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"ecitizen/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds dialogue sessions when SESSION_STORE=redis.
	SessionCacheClient *redis.Client
	// QueueCacheClient points at the DB used by the submission queue.
	QueueCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for dialogue sessions.
func InitSessionCache() {
	SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB, "Session Cache")
}

// GetSessionCacheClient returns the dialogue session client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitQueueCache initializes the Redis client for the submission queue DB.
func InitQueueCache() {
	QueueCacheClient = newRedisClient(config.AppConfig.RedisQueueDB, "Queue")
}

// GetQueueCacheClient returns the submission queue client.
func GetQueueCacheClient() *redis.Client {
	if QueueCacheClient == nil {
		InitQueueCache()
	}
	return QueueCacheClient
}

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}
