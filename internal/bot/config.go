package bot

import (
	"fmt"
	"os"
	"strconv"

	"github.com/example/vocabbot/internal/scheduler"
)

// Config holds the process-wide configuration loaded once at startup
type Config struct {
	TelegramToken string
	OpenAIKey     string
	DatabaseURL   string // empty means local SQLite
	ReminderHour  int    // hour of day (UTC) for the practice reminder
}

// ConfigFromEnv reads the configuration from environment variables.
// Missing credentials are a fatal startup condition for the caller.
func ConfigFromEnv() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	cfg := &Config{
		TelegramToken: token,
		OpenAIKey:     apiKey,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ReminderHour:  scheduler.DefaultReminderHour,
	}

	if hourStr := os.Getenv("REMINDER_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			cfg.ReminderHour = h
		}
	}

	return cfg, nil
}
