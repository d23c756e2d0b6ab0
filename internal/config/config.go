package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string        `yaml:"bot_token"`
		ChatID   string        `yaml:"chat_id"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"telegram"`
	DataSource struct {
		// BaseURL selects the REST bars service; empty means Yahoo Finance.
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Lookback string        `yaml:"lookback" default:"3mo" validate:"oneof=1mo 3mo 6mo 1y 2y"`
		MinBars  int           `yaml:"min_bars" default:"20" validate:"gte=2"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"data_source"`
	Rate struct {
		URL      string        `yaml:"url" default:"https://open.er-api.com/v6/latest/USD" validate:"url"`
		Currency string        `yaml:"currency" default:"KRW" validate:"len=3"`
		Fallback float64       `yaml:"fallback" default:"1450" validate:"gt=0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"rate"`
	Screen struct {
		Candidates      []string `yaml:"candidates" default:"[\"LABU\",\"TNA\",\"TSLL\",\"SOXL\",\"NRGU\",\"GDXU\",\"IONX\",\"FNGU\"]" validate:"min=1,dive,required"`
		RSIPeriod       int      `yaml:"rsi_period" default:"14" validate:"gte=1"`
		Threshold       float64  `yaml:"threshold" default:"40" validate:"gt=0,lte=100"`
		LOCMarkup       float64  `yaml:"loc_markup" default:"0.1" validate:"gte=0"`
		DefaultSeed     string   `yaml:"default_seed" default:"5500"`
		DefaultHoldings string   `yaml:"default_holdings" default:"TSLL,LABU"`
	} `yaml:"screen"`
	Settings struct {
		File string `yaml:"file" default:"mason_settings.json"`
	} `yaml:"settings"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron" default:"0 30 22 * * 1-5"`
	} `yaml:"schedule"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`

	// CI is true inside a recognized CI runner, where settings are not persisted.
	CI bool `yaml:"-"`
}

var validate = validator.New()

// LoadEnvFile loads KEY=VALUE pairs from the given .env files into the
// process environment. Missing files are ignored; existing variables win.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable
// overrides and finally fills defaults for anything still unset.
func Load(path string) (*Config, error) {
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

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_SOURCE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FALLBACK_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rate.Fallback = rate
		}
	}
	if v := os.Getenv("SETTINGS_FILE"); v != "" {
		cfg.Settings.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	cfg.CI = os.Getenv("GITHUB_ACTIONS") == "true"
}

// Validate checks field constraints and that the default seed and holdings parse.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := ParseSeed(c.Screen.DefaultSeed); err != nil {
		return fmt.Errorf("screen.default_seed: %w", err)
	}
	if _, err := ParseHoldings(c.Screen.DefaultHoldings); err != nil {
		return fmt.Errorf("screen.default_holdings: %w", err)
	}
	for _, t := range c.Screen.Candidates {
		if !tickerPattern.MatchString(normalizeTicker(t)) {
			return fmt.Errorf("screen.candidates: invalid ticker %q", t)
		}
	}
	return nil
}

// DeliveryConfigured reports whether Telegram credentials are present.
func (c *Config) DeliveryConfigured() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
