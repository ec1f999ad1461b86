package main

import (
	"fmt"

	"codeberg.org/archviz/studio/internal/auth"
	"codeberg.org/archviz/studio/internal/errors"
	"codeberg.org/archviz/studio/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const loginRateLimit = "20-M"

// builds a rate limit middleware; counters live in redis when a client is given
func newRateLimiter(formatted, prefix string, client *redis.Client, key func(c *gin.Context) string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}

	var store limiter.Store

	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   "limiter:" + prefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          "limiter:" + prefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithKeyGetter(key),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "Too many requests. Please slow down.")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// fail open when the counter store is unreachable
			logger.ErrorErr(err, "rate limiter failed", "prefix", prefix)
			c.Next()
		}),
	), nil
}

// limits per signed-in user, falling back to the client ip
func userOrIPKey(c *gin.Context) string {
	if userID, ok := auth.GetUserID(c); ok && userID != "" {
		return "user:" + userID
	}

	return "ip:" + c.ClientIP()
}

func ipKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}
