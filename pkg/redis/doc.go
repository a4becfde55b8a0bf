// Package redis opens go-redis clients used as shared attempt storage.
//
// Open validates the URL (redis:// or rediss://), applies pool and timeout
// settings from Config and retries the initial PING with linear backoff:
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck and Shutdown return context-aware hooks for readiness probes and
// graceful shutdown.
//
// Sentinel errors use the "redis:" prefix: ErrEmptyConnectionURL,
// ErrFailedToParseURL, ErrConnectionFailed and ErrHealthcheckFailed.
package redis
