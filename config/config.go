package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	DatabaseName    string        `envconfig:"DATABASE_NAME"`
	StoreTimeout    time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
	RabbitMQURL     string        `envconfig:"RABBITMQ_URL"`
	RabbitMQQueue   string        `envconfig:"RABBITMQ_QUEUE" default:"order_events"`
	ChannelPoolSize int           `envconfig:"CHANNEL_POOL_SIZE" default:"10"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config from environment")
	}
	if cfg.ChannelPoolSize < 1 {
		return nil, errors.Errorf("CHANNEL_POOL_SIZE must be at least 1, got %d", cfg.ChannelPoolSize)
	}
	return &cfg, nil
}

// DatabaseConfigured reports whether both store settings are present.
func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != "" && c.DatabaseName != ""
}

func (c *Config) NotificationsEnabled() bool {
	return c.RabbitMQURL != ""
}
