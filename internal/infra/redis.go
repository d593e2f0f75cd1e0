package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds the client used for the summary cache, job queue, and
// low-stock alert store. Fails fast when redis is unreachable so the server
// never starts with a dead queue.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
