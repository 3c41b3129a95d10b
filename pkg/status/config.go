package status

import "time"

// Config holds the Redis connection and record retention settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	RecordTTL      time.Duration `env:"STATUS_RECORD_TTL" envDefault:"24h"`
	WriteTimeout   time.Duration `env:"STATUS_WRITE_TIMEOUT" envDefault:"5s"`
}
