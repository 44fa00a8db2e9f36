// Package redis provides Redis connection management with
// environment-driven configuration, startup retry logic and a health
// check probe. The service uses Redis only as an optional read cache,
// so an empty REDIS_URL simply disables it.
package redis
