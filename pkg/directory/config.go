package directory

import "time"

// Config holds the user-directory client settings.
type Config struct {
	BaseURL        string        `env:"USER_SERVICE_URL,required"`
	RequestTimeout time.Duration `env:"USER_SERVICE_TIMEOUT" envDefault:"10s"`
}
