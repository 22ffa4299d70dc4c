package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TG_BOT_TOKEN", "TELEGRAM_CHAT_ID", "TG_CHAT_ID", "DGPA_KEYWORD", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Warnings, 1)
	assert.Equal(t, DefaultKeyword, cfg.Keyword)
	assert.Equal(t, DefaultSearchURL, cfg.SearchURL)
	assert.Equal(t, 5, cfg.PreviewLimit)
	assert.Equal(t, ".cache", cfg.CachePath)
	assert.True(t, cfg.FallbackEnabled())
	assert.True(t, cfg.Headless())
	assert.Equal(t, 2, cfg.Browser.Retries)
	assert.Equal(t, 45, cfg.Browser.TimeoutSeconds)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram_token: from-yaml
telegram_chat_id: 42
keyword: 資訊處理
enable_fallback: false
preview_limit: 3
title_keywords: [秘書, 科員]
browser:
  headless: false
  retries: -1
`)
	t.Setenv("TG_BOT_TOKEN", "from-env")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, "from-env", cfg.TelegramToken)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.Equal(t, "資訊處理", cfg.Keyword)
	assert.False(t, cfg.FallbackEnabled())
	assert.False(t, cfg.Headless())
	assert.Equal(t, 3, cfg.PreviewLimit)
	assert.Equal(t, []string{"秘書", "科員"}, cfg.TitleKeywords)
	assert.Equal(t, 0, cfg.Browser.Retries)
	assert.NoError(t, cfg.Validate(true))
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "keyword: [unterminated"))
	assert.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err = Load(writeConfig(t, "keyword: 統計"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate(false))
	assert.EqualError(t, cfg.Validate(true), "TELEGRAM_BOT_TOKEN is required")

	cfg.TelegramToken = "token"
	assert.EqualError(t, cfg.Validate(true), "TELEGRAM_CHAT_ID is required")
}
