package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"TickerGuess/internal/collector"
)

// UI modes.
const (
	ModeTUI      = "tui"
	ModeLine     = "line"
	ModeTelegram = "telegram"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider       string `yaml:"provider"`
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		AlpacaKeyID    string `yaml:"alpaca_key_id"`
		AlpacaSecret   string `yaml:"alpaca_secret"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	UI struct {
		Mode    string `yaml:"mode"`
		LogFile string `yaml:"log_file"`
	} `yaml:"ui"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory, if present, is loaded
// first; it never replaces variables already set in the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.DataSource.AlpacaKeyID = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.DataSource.AlpacaSecret = v
	}
	if v := os.Getenv("DATA_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("UI_MODE"); v != "" {
		cfg.UI.Mode = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = collector.ProviderAlphaVantage
	}
	if cfg.DataSource.TimeoutSeconds <= 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = ModeTUI
	}
	if cfg.UI.LogFile == "" {
		cfg.UI.LogFile = "tickerguess.log"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case collector.ProviderAlphaVantage:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for %s", c.DataSource.Provider)
		}
	case collector.ProviderAlpaca:
		if c.DataSource.AlpacaKeyID == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source.alpaca_key_id and alpaca_secret are required for %s", c.DataSource.Provider)
		}
	case collector.ProviderYahoo, collector.ProviderMock:
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}

	switch c.UI.Mode {
	case ModeTUI, ModeLine:
	case ModeTelegram:
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required")
		}
	default:
		return fmt.Errorf("unknown ui.mode %q", c.UI.Mode)
	}
	return nil
}
