package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/yourusername/parts-catalog/internal/infrastructure/parser"
	"github.com/yourusername/parts-catalog/internal/infrastructure/sheets"
)

const (
	defaultCatalogTTL   = 5 * time.Minute
	defaultFetchLogSize = 50
)

// Config application configuration
type Config struct {
	FeedURL       string
	FeedFormat    string
	CatalogTTL    time.Duration
	HTTPTimeout   time.Duration
	FetchLogSize  int
	TelegramToken string
	LogLevel      zerolog.Level
}

// Load reads the environment, .env included when present
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		FeedURL:       sheets.DefaultFeedURL,
		FeedFormat:    parser.FormatCSV,
		CatalogTTL:    defaultCatalogTTL,
		FetchLogSize:  defaultFetchLogSize,
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		LogLevel:      zerolog.InfoLevel,
	}

	if url := strings.TrimSpace(os.Getenv("FEED_URL")); url != "" {
		config.FeedURL = url
	}

	if format := strings.TrimSpace(os.Getenv("FEED_FORMAT")); format != "" {
		format = strings.ToLower(format)
		if format != parser.FormatCSV && format != parser.FormatXLSX {
			return nil, fmt.Errorf("FEED_FORMAT must be csv or xlsx, got %q", format)
		}
		config.FeedFormat = format
	}

	if raw := os.Getenv("CATALOG_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("CATALOG_TTL has invalid format: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("CATALOG_TTL must be positive, got %s", ttl)
		}
		config.CatalogTTL = ttl
	}

	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("HTTP_TIMEOUT has invalid format: %w", err)
		}
		if timeout < 0 {
			return nil, fmt.Errorf("HTTP_TIMEOUT must not be negative, got %s", timeout)
		}
		config.HTTPTimeout = timeout
	}

	if raw := os.Getenv("FETCH_LOG_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("FETCH_LOG_SIZE has invalid format: %w", err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("FETCH_LOG_SIZE must be positive, got %d", size)
		}
		config.FetchLogSize = size
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL has invalid format: %w", err)
		}
		config.LogLevel = level
	}

	return config, nil
}

// BotEnabled the Telegram front end runs only with a token
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}
