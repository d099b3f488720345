package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisIOTimeout   = 500 * time.Millisecond
	redisPingTimeout = 2 * time.Second
)

var errEmptyRedisURL = errors.New("redis url must not be empty")

// ConnectRedis opens the trending cache client. Reads and writes time out
// quickly so a slow cache degrades to a database read instead of a stall.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errEmptyRedisURL
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	options.ReadTimeout = redisIOTimeout
	options.WriteTimeout = redisIOTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
