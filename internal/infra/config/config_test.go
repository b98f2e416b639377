package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFileWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
llm:
  apiKey: file-key
  model: deepseek-chat
video:
  strategy: dish
  maxResults: 5
session:
  idleTtl: 30m
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "deepseek-key")
	t.Setenv("WEATHER_API_KEY", "weather-key")
	t.Setenv("VIDEO_CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "deepseek-key", cfg.LLM.APIKey)
	require.Equal(t, "weather-key", cfg.Weather.APIKey)
	require.Equal(t, "dish", cfg.Video.Strategy)
	require.Equal(t, 5, cfg.Video.MaxResults)
	require.Equal(t, time.Hour, cfg.Video.CacheTTL)
	require.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	require.Equal(t, 160, cfg.Speech.DefaultRate)
	require.Equal(t, "上海", cfg.Weather.DefaultCity)
}

func TestLLMKeyPrecedence(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("DEEPSEEK_API_KEY", "a")
	t.Setenv("LLM_API_KEY", "b")
	applyEnvOverrides(cfg)
	require.Equal(t, "b", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.ErrorContains(t, cfg.Validate(), "llm.apiKey")

	cfg.LLM.APIKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Video.Strategy = "random"
	require.ErrorContains(t, cfg.Validate(), "video.strategy")

	cfg = defaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.Video.Redis.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "video.redis.addr")

	cfg = defaultConfig()
	cfg.LLM.APIKey = "k"
	cfg.Speech.DefaultRate = 300
	require.ErrorContains(t, cfg.Validate(), "speech.defaultRate")
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
}
