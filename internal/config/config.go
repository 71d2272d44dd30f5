package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL     string
	RelayURL       string
	StateFile      string
	StateKeyFile   string
	RequestTimeout time.Duration
	FeedLimit      int
}

func Load() (*Config, error) {
	requestTimeout, err := time.ParseDuration(getEnv("POTLUCK_REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:     getEnv("POTLUCK_API_URL", "http://localhost:5000"),
		RelayURL:       getEnv("POTLUCK_RELAY_URL", "ws://localhost:5000/socket"),
		StateFile:      getEnv("POTLUCK_STATE", "potluck.db"),
		StateKeyFile:   getEnv("POTLUCK_STATE_KEY", "potluck.key"),
		RequestTimeout: requestTimeout,
		FeedLimit:      10,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("POTLUCK_API_URL is required")
	}

	if !strings.HasPrefix(c.RelayURL, "ws://") && !strings.HasPrefix(c.RelayURL, "wss://") {
		return fmt.Errorf("POTLUCK_RELAY_URL must be a ws:// or wss:// URL")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("POTLUCK_REQUEST_TIMEOUT must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
