// Load envs from .env
// Load YAML config
// Apply env overrides and default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "configs/config.yaml"
	DefaultSearchURL = "https://web3.dgpa.gov.tw/want03front/AP/WANTF00001.ASPX"
	DefaultKeyword   = "統計"
)

type Browser struct {
	Headless       *bool `yaml:"headless"`
	Retries        int   `yaml:"retries"`
	TimeoutSeconds int   `yaml:"timeout_seconds"`
}

type Config struct {
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	//Search criteria
	Keyword   string `yaml:"keyword" env:"DGPA_KEYWORD"`
	SearchURL string `yaml:"search_url"`
	//Extraction
	EnableFallback *bool    `yaml:"enable_fallback"`
	TitleKeywords  []string `yaml:"title_keywords"`
	//Notification
	PreviewLimit int  `yaml:"preview_limit"`
	OnlyActive   bool `yaml:"only_active"`
	//Storage
	CachePath   string `yaml:"cache_path"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	Browser Browser `yaml:"browser"`
	Debug   bool    `yaml:"debug"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `yaml:"-"`
}

// Load reads .env, the YAML file at path (a missing file is only a warning),
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("could not read %s: %v", path, err))
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

//Override with env vars. TG_* names are accepted for older deployments.
func (c *Config) applyEnv() error {
	if token := firstEnv("TELEGRAM_BOT_TOKEN", "TG_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}

	if chatID := firstEnv("TELEGRAM_CHAT_ID", "TG_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	if kw := os.Getenv("DGPA_KEYWORD"); kw != "" {
		c.Keyword = kw
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Keyword = strings.TrimSpace(c.Keyword)
	if c.Keyword == "" {
		c.Keyword = DefaultKeyword
	}

	if c.SearchURL == "" {
		c.SearchURL = DefaultSearchURL
	}

	if c.EnableFallback == nil {
		c.EnableFallback = boolPtr(true)
	}

	if c.PreviewLimit <= 0 {
		c.PreviewLimit = 5
	}

	if c.CachePath == "" {
		c.CachePath = ".cache"
	}

	if c.Browser.Headless == nil {
		c.Browser.Headless = boolPtr(true)
	}

	if c.Browser.Retries < 0 {
		c.Browser.Retries = 0
	} else if c.Browser.Retries == 0 {
		c.Browser.Retries = 2
	}

	if c.Browser.TimeoutSeconds <= 0 {
		c.Browser.TimeoutSeconds = 45
	}
}

// Validate checks required fields. Telegram credentials are only required by
// commands that deliver messages.
func (c *Config) Validate(requireTelegram bool) error {
	if !requireTelegram {
		return nil
	}
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is required")
	}
	return nil
}

func (c *Config) FallbackEnabled() bool {
	return c.EnableFallback == nil || *c.EnableFallback
}

func (c *Config) Headless() bool {
	return c.Browser.Headless == nil || *c.Browser.Headless
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func boolPtr(b bool) *bool {
	return &b
}
