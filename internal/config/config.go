package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	App       *AppConfig
	Namecheap *NamecheapConfig
	RDAP      *RDAPConfig
}

type AppConfig struct {
	Port     string `env:"PORT" envDefault:"8090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type NamecheapConfig struct {
	APIUser  string        `env:"NAMECHEAP_API_USER"`
	APIKey   string        `env:"NAMECHEAP_API_KEY"`
	Username string        `env:"NAMECHEAP_USERNAME"`
	ClientIP string        `env:"NAMECHEAP_CLIENT_IP"`
	URL      string        `env:"NAMECHEAP_API_URL" envDefault:"https://api.namecheap.com/xml.response"`
	Timeout  time.Duration `env:"NAMECHEAP_TIMEOUT" envDefault:"15s"`
}

// Configured reports whether the registrar credentials are present. When
// they are not, resolution goes straight to the registry lookup path.
func (c *NamecheapConfig) Configured() bool {
	return c.APIUser != "" && c.APIKey != ""
}

type RDAPConfig struct {
	BootstrapURL string        `env:"RDAP_BOOTSTRAP_URL" envDefault:"https://data.iana.org/rdap/dns.json"`
	Timeout      time.Duration `env:"RDAP_TIMEOUT" envDefault:"8s"`
	CacheTTL     time.Duration `env:"RDAP_CACHE_TTL" envDefault:"1h"`
}

func Load() (*Config, error) {
	cfg := &Config{
		App:       &AppConfig{},
		Namecheap: &NamecheapConfig{},
		RDAP:      &RDAPConfig{},
	}

	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return cfg, nil
}
