package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Auth     Auth     `envPrefix:"AUTH_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
	Invoice  Invoice  `envPrefix:"INVOICE_"`
	Shopee   Shopee   `envPrefix:"SHOPEE_"`
	Gemini   Gemini   `envPrefix:"GEMINI_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"DATABASE_URL" envDefault:"file::memory:?cache=shared"`
	Seed   bool   `env:"DB_SEED" envDefault:"true"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"nook-dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

type Checkout struct {
	InvoiceTimeout time.Duration `env:"INVOICE_TIMEOUT" envDefault:"5s"`
	// how long a confirm request waits for the settlement before answering 202
	ConfirmWait time.Duration `env:"CONFIRM_WAIT" envDefault:"10s"`
}

type Invoice struct {
	BaseApiURL       string        `env:"BASE_API_URL"`
	ApiKey           string        `env:"API_KEY"`
	ApiSecret        string        `env:"API_SECRET"`
	Currency         string        `env:"CURRENCY" envDefault:"TWD"`
	SimulatedLatency time.Duration `env:"SIMULATED_LATENCY" envDefault:"1s"`
}

type Shopee struct {
	BaseApiURL       string        `env:"BASE_API_URL"`
	ApiKey           string        `env:"API_KEY"`
	ShopID           string        `env:"SHOP_ID"`
	SimulatedLatency time.Duration `env:"SIMULATED_LATENCY" envDefault:"1500ms"`
}

type Gemini struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://generativelanguage.googleapis.com"`
	ApiKey     string `env:"API_KEY"`
	Model      string `env:"MODEL" envDefault:"gemini-2.5-flash"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
