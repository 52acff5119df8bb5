package config

import (
	"errors"
	"os"
)

type Config struct {
	HTTPAddr            string
	MySQLDSN            string
	RedisAddr           string
	StripeAPIKey        string
	StripeWebhookSecret string
}

// Load reads settings from the environment. The Stripe credentials have
// no defaults: signature verification and intent creation are useless
// without the real values.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:            getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/store?parseTime=true"),
		RedisAddr:           getenv("REDIS_ADDR", "localhost:6379"),
		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}

	if cfg.StripeWebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET is not set")
	}
	if cfg.StripeAPIKey == "" {
		return nil, errors.New("STRIPE_API_KEY is not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
