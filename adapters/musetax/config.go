package musetax

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the remote endpoints and credentials header. Values come
// from the environment in deployments; zero values fall back to the dev
// endpoints the widgets are built against.
type Config struct {
	BaseURL    string        `env:"MUSETAX_API_BASE_URL" envDefault:"https://dev-categorization.musetax.com/v2/api"`
	AuthURL    string        `env:"MUSETAX_AUTH_URL" envDefault:"https://api-devbe.musetax.com/auth/token"`
	ServiceKey string        `env:"MUSETAX_SERVICE_KEY" envDefault:"checkboost"`
	Timeout    time.Duration `env:"MUSETAX_HTTP_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv parses the client configuration from the environment.
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DefaultConfig returns the dev defaults without touching the environment.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://dev-categorization.musetax.com/v2/api",
		AuthURL:    "https://api-devbe.musetax.com/auth/token",
		ServiceKey: "checkboost",
		Timeout:    30 * time.Second,
	}
}
