package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.Budget.Daily)
	assert.Equal(t, 50.0, cfg.Budget.PerAnalysis)
	assert.Equal(t, 0.70, cfg.Budget.PassThreshold)
	assert.Equal(t, 10*time.Second, cfg.Services.CallTimeout)
	assert.Equal(t, "0 0 0 * * *", cfg.Schedule.ResetCron)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", `
services:
  call_timeout: 3s
  registry:
    base_url: https://registry.example.com
    api_key: from-file
  credit:
    base_url: https://credit.example.com
  verification:
    base_url: https://verify.example.com
budget:
  daily: 500
  timezone: America/New_York
category_rules:
  deposits:
    - keywords: [shopify]
      category: Card Processing
`)
	t.Setenv("REGISTRY_API_KEY", "from-env")
	t.Setenv("PER_ANALYSIS_BUDGET", "75.5")
	t.Setenv("DAILY_BUDGET", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Services.CallTimeout)
	assert.Equal(t, "from-env", cfg.Services.Registry.APIKey)
	assert.Equal(t, 500.0, cfg.Budget.Daily)
	assert.Equal(t, 75.5, cfg.Budget.PerAnalysis)
	require.Len(t, cfg.CategoryRules["deposits"], 1)
	assert.Equal(t, []string{"shopify"}, cfg.CategoryRules["deposits"][0].Keywords)
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeFile(t, "config.yaml", "budget: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"mock services", func(c *Config) {}, true},
		{"negative daily", func(c *Config) { c.Budget.Daily = -1 }, false},
		{"threshold above one", func(c *Config) { c.Budget.PassThreshold = 1.5 }, false},
		{"bad timezone", func(c *Config) { c.Budget.Timezone = "Mars/Olympus" }, false},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }, false},
		{"real services without urls", func(c *Config) { c.Services.Mock = false }, false},
		{"unknown rule section", func(c *Config) {
			c.CategoryRules = map[string][]CategoryRule{"loans": {{Keywords: []string{"x"}, Category: "Y"}}}
		}, false},
		{"rule without category", func(c *Config) {
			c.CategoryRules = map[string][]CategoryRule{"fees": {{Keywords: []string{"x"}}}}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			cfg.Services.Mock = true
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := writeFile(t, ".env", "SENTINEL_DOTENV_PROBE=loaded\n")
	t.Setenv("SENTINEL_DOTENV_PROBE", "")
	os.Unsetenv("SENTINEL_DOTENV_PROBE")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SENTINEL_DOTENV_PROBE"))
}
