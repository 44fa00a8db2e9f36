package redis

import "time"

// Config represents the Redis connection configuration. The connection
// URL is optional: the service runs without a cache when it is empty.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                               // URL in the form redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`     // Connection attempts before giving up at startup.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`    // Wait between connection attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`  // Overall timeout for establishing a connection.
	CacheTTL       time.Duration `env:"REDIS_CACHE_TTL" envDefault:"30s"`        // TTL for cached customer reads.
}
