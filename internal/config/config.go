package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServiceConfig addresses one paid verification service.
type ServiceConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	RequestsPerSec float64 `yaml:"requests_per_sec"`
}

// CategoryRule is a user-supplied keyword rule for transaction categories.
type CategoryRule struct {
	Keywords []string `yaml:"keywords"`
	Category string   `yaml:"category"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		Polling  bool   `yaml:"polling"`
	} `yaml:"telegram"`
	Services struct {
		Mock         bool          `yaml:"mock"`
		CallTimeout  time.Duration `yaml:"call_timeout"`
		Registry     ServiceConfig `yaml:"registry"`
		Credit       ServiceConfig `yaml:"credit"`
		Verification ServiceConfig `yaml:"verification"`
	} `yaml:"services"`
	Budget struct {
		Daily         float64 `yaml:"daily"`
		PerAnalysis   float64 `yaml:"per_analysis"`
		PassThreshold float64 `yaml:"pass_threshold"`
		StateFile     string  `yaml:"state_file"`
		Timezone      string  `yaml:"timezone"`
	} `yaml:"budget"`
	Schedule struct {
		ResetCron string `yaml:"reset_cron"`
		SweepCron string `yaml:"sweep_cron"`
	} `yaml:"schedule"`
	Inbox struct {
		Dir    string `yaml:"dir"`
		OutDir string `yaml:"out_dir"`
	} `yaml:"inbox"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	CategoryRules map[string][]CategoryRule `yaml:"category_rules"`
	LogLevel      string                    `yaml:"log_level"`
	Proxy         string                    `yaml:"proxy"`
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	strs := []struct {
		key string
		dst *string
	}{
		{"LOG_LEVEL", &c.LogLevel},
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"REGISTRY_BASE_URL", &c.Services.Registry.BaseURL},
		{"REGISTRY_API_KEY", &c.Services.Registry.APIKey},
		{"CREDIT_BASE_URL", &c.Services.Credit.BaseURL},
		{"CREDIT_API_KEY", &c.Services.Credit.APIKey},
		{"VERIFICATION_BASE_URL", &c.Services.Verification.BaseURL},
		{"VERIFICATION_API_KEY", &c.Services.Verification.APIKey},
		{"BUDGET_STATE_FILE", &c.Budget.StateFile},
		{"INBOX_DIR", &c.Inbox.Dir},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"HTTPS_PROXY", &c.Proxy},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"DAILY_BUDGET", &c.Budget.Daily},
		{"PER_ANALYSIS_BUDGET", &c.Budget.PerAnalysis},
	}
	for _, f := range floats {
		if v := os.Getenv(f.key); v != "" {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				*f.dst = n
			}
		}
	}

	if v := os.Getenv("VERIFY_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Services.Mock = b
		}
	}
	if v := os.Getenv("CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Services.CallTimeout = d
		}
	}
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Services.CallTimeout == 0 {
		c.Services.CallTimeout = 10 * time.Second
	}
	if c.Budget.Daily == 0 {
		c.Budget.Daily = 200
	}
	if c.Budget.PerAnalysis == 0 {
		c.Budget.PerAnalysis = 50
	}
	if c.Budget.PassThreshold == 0 {
		c.Budget.PassThreshold = 0.70
	}
	if c.Budget.StateFile == "" {
		c.Budget.StateFile = "data/budget_state.json"
	}
	if c.Budget.Timezone == "" {
		c.Budget.Timezone = "UTC"
	}
	if c.Schedule.ResetCron == "" {
		c.Schedule.ResetCron = "0 0 0 * * *"
	}
	if c.Schedule.SweepCron == "" {
		c.Schedule.SweepCron = "0 */5 * * * *"
	}
	if c.Inbox.Dir == "" {
		c.Inbox.Dir = "data/inbox"
	}
	if c.Inbox.OutDir == "" {
		c.Inbox.OutDir = "data/reports"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/statement_sentinel.db"
	}
}

// Location returns the time zone the daily budget rolls over in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Budget.Timezone)
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

var ruleSections = map[string]bool{"deposits": true, "withdrawals": true, "electronic": true, "fees": true}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Budget.Daily <= 0 {
		return fmt.Errorf("budget.daily must be positive")
	}
	if c.Budget.PerAnalysis <= 0 {
		return fmt.Errorf("budget.per_analysis must be positive")
	}
	if c.Budget.PassThreshold <= 0 || c.Budget.PassThreshold > 1 {
		return fmt.Errorf("budget.pass_threshold must be in (0, 1]")
	}
	if c.Services.CallTimeout < 0 {
		return fmt.Errorf("services.call_timeout must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("budget.timezone: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if !c.Services.Mock {
		for name, s := range map[string]ServiceConfig{
			"registry":     c.Services.Registry,
			"credit":       c.Services.Credit,
			"verification": c.Services.Verification,
		} {
			if s.BaseURL == "" {
				return fmt.Errorf("services.%s.base_url is required unless services.mock is set", name)
			}
		}
	}
	for section, rules := range c.CategoryRules {
		if !ruleSections[strings.ToLower(section)] {
			return fmt.Errorf("category_rules: unknown section %q", section)
		}
		for _, r := range rules {
			if r.Category == "" || len(r.Keywords) == 0 {
				return fmt.Errorf("category_rules.%s: every rule needs keywords and a category", section)
			}
		}
	}
	return nil
}
