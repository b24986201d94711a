package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	Coin            string        // ticker symbol, e.g. BTC
	Interval        string        // candle interval
	CandleCount     int           // candles fetched per analysis
	RSIPeriod       int
	RequestTimeout  time.Duration // per upstream HTTP request
	RefineTimeout   time.Duration // budget for the single AI refinement attempt
	WatchInterval   time.Duration // recompute period in watch mode
	CurrentBlock    int64         // current-block reference override, 0 = default
	OpenRouterKey   string        // empty disables the AI steps
	OpenRouterModel string
	TelegramToken   string
	TelegramChatID  int64
	LogLevel        string
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Config{
		Coin:            getEnvWithDefault("COIN", "BTC"),
		Interval:        getEnvWithDefault("INTERVAL", "1h"),
		CandleCount:     getEnvIntWithDefault("CANDLE_COUNT", 100),
		RSIPeriod:       getEnvIntWithDefault("RSI_PERIOD", 14),
		RequestTimeout:  time.Duration(getEnvIntWithDefault("REQUEST_TIMEOUT", 30)) * time.Second,
		RefineTimeout:   time.Duration(getEnvIntWithDefault("REFINE_TIMEOUT", 10)) * time.Second,
		WatchInterval:   time.Duration(getEnvIntWithDefault("WATCH_INTERVAL", 30)) * time.Second,
		CurrentBlock:    getEnvInt64WithDefault("CURRENT_BLOCK", 0),
		OpenRouterKey:   os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel: os.Getenv("OPENROUTER_MODEL"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:  getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
