package push

import "time"

// Config holds VAPID credentials and provider request settings.
type Config struct {
	VAPIDPublicKey  string        `env:"VAPID_PUBLIC_KEY,required"`
	VAPIDPrivateKey string        `env:"VAPID_PRIVATE_KEY,required"`
	Subscriber      string        `env:"VAPID_EMAIL,required"` // contact email carried in the VAPID "sub" claim
	RequestTimeout  time.Duration `env:"PUSH_REQUEST_TIMEOUT" envDefault:"30s"`
	MessageTTL      time.Duration `env:"PUSH_MESSAGE_TTL" envDefault:"24h"` // provider-side retention for undeliverable pushes
}
