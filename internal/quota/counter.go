package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const counterTTL = 48 * time.Hour

// increments only while below the limit; returns the new count or -1
var reserveScript = redis.NewScript(`
	local current = tonumber(redis.call("GET", KEYS[1]) or "0")
	if current >= tonumber(ARGV[1]) then
		return -1
	end
	current = redis.call("INCR", KEYS[1])
	redis.call("EXPIRE", KEYS[1], ARGV[2])
	return current
`)

// decrements without going below zero
var releaseScript = redis.NewScript(`
	local current = tonumber(redis.call("GET", KEYS[1]) or "0")
	if current <= 0 then
		return 0
	end
	return redis.call("DECR", KEYS[1])
`)

func NewRedisCounterFromClient(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// atomically takes one slot for the day when fewer than limit are taken
func (c *RedisCounter) Reserve(ctx context.Context, userID, date string, limit int) (bool, error) {
	key := fmt.Sprintf(keyQuota, userID, date)

	n, err := reserveScript.Run(ctx, c.client, []string{key}, limit, int(counterTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("failed to reserve quota in redis: %w", err)
	}

	return n > 0, nil
}

// returns a slot taken by Reserve
func (c *RedisCounter) Release(ctx context.Context, userID, date string) error {
	key := fmt.Sprintf(keyQuota, userID, date)

	if err := releaseScript.Run(ctx, c.client, []string{key}).Err(); err != nil {
		return fmt.Errorf("failed to release quota in redis: %w", err)
	}

	return nil
}

// seeds the counter from the stored usage so a restart does not reopen the day
func (c *RedisCounter) Seed(ctx context.Context, userID, date string, usage int) error {
	key := fmt.Sprintf(keyQuota, userID, date)

	if err := c.client.SetNX(ctx, key, usage, counterTTL).Err(); err != nil {
		return fmt.Errorf("failed to seed quota in redis: %w", err)
	}

	return nil
}
