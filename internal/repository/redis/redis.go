package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// newOptions tunes the client for cache traffic: every operation is a small
// single-key read or write, and every caller degrades to MySQL on failure, so
// timeouts stay well under a typical request budget.
func newOptions(addr, password string, db int) *redis.Options {
	return &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     20,
		MinIdleConns: 4,
	}
}

// Init creates the shared client and pings it once as a health check.
func Init(addr, password string, db int) error {
	Client = redis.NewClient(newOptions(addr, password, db))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return Client.Ping(ctx).Err()
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
