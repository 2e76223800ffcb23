package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the task tracker.
type Config struct {
	DatabaseURL    string
	DBDebug        bool
	TelegramToken  string
	TelegramChatID int64
	DigestInterval time.Duration
	DigestAt       string // HH:MM; takes precedence over DigestInterval
	Output         string
}

// Load reads configuration from environment variables, falling back to a
// .env file in the working directory.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file. Process environment variables
// win over values from the file. A missing file is not an error.
func LoadFrom(envFile string) (Config, error) {
	file, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}
	env := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(file[key])
	}

	cfg := Config{
		DatabaseURL:    env("DATABASE_URL"),
		DBDebug:        parseBool(env("DB_DEBUG")),
		TelegramToken:  env("TELEGRAM_TOKEN"),
		DigestInterval: parseInterval(env("DIGEST_INTERVAL_HOURS")),
		DigestAt:       env("DIGEST_AT"),
		Output:         strings.ToLower(env("TASKS_OUTPUT")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tasks.db"
	}

	if cfg.DigestInterval == 0 {
		cfg.DigestInterval = 24 * time.Hour
	}

	if raw := env("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer, got %q", raw)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	switch cfg.Output {
	case "", "table", "json", "yaml":
	default:
		return cfg, fmt.Errorf("TASKS_OUTPUT must be one of table, json, yaml, got %q", cfg.Output)
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
