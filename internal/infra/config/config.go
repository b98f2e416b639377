package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Weather WeatherConfig `yaml:"weather"`
	Video   VideoConfig   `yaml:"video"`
	Session SessionConfig `yaml:"session"`
	Speech  SpeechConfig  `yaml:"speech"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries of POST requests that failed with 5xx.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	// Exclude lists path suffixes that must never be replayed.
	Exclude []string `yaml:"exclude"`
}

// LLMConfig contains chat completion settings.
type LLMConfig struct {
	APIKey        string        `yaml:"apiKey"`
	BaseURL       string        `yaml:"baseUrl"`
	Model         string        `yaml:"model"`
	Temperature   float32       `yaml:"temperature"`
	Timeout       time.Duration `yaml:"timeout"`
	TokenEncoding string        `yaml:"tokenEncoding"`
}

// UpstreamRetryConfig configures circuit breaking and backoff for outbound calls.
type UpstreamRetryConfig struct {
	MaxRetries       int           `yaml:"maxRetries"`
	InitialInterval  time.Duration `yaml:"initialInterval"`
	MaxInterval      time.Duration `yaml:"maxInterval"`
	FailureThreshold uint32        `yaml:"failureThreshold"`
	OpenTimeout      time.Duration `yaml:"openTimeout"`
}

// WeatherConfig controls the WeatherAPI.com client.
type WeatherConfig struct {
	APIKey      string              `yaml:"apiKey"`
	BaseURL     string              `yaml:"baseUrl"`
	Timeout     time.Duration       `yaml:"timeout"`
	DefaultCity string              `yaml:"defaultCity"`
	Retry       UpstreamRetryConfig `yaml:"retry"`
}

// VideoConfig controls the video recommender.
type VideoConfig struct {
	APIKey     string              `yaml:"apiKey"`
	BaseURL    string              `yaml:"baseUrl"`
	Timeout    time.Duration       `yaml:"timeout"`
	MaxResults int                 `yaml:"maxResults"`
	Strategy   string              `yaml:"strategy"`
	CacheTTL   time.Duration       `yaml:"cacheTtl"`
	Retry      UpstreamRetryConfig `yaml:"retry"`
	Redis      RedisConfig         `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// SessionConfig controls in-memory session lifetime.
type SessionConfig struct {
	IdleTTL       time.Duration `yaml:"idleTtl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	ContextTurns  int           `yaml:"contextTurns"`
	DisplayTurns  int           `yaml:"displayTurns"`
}

// SpeechConfig controls the local speech synthesizer.
type SpeechConfig struct {
	Binary      string   `yaml:"binary"`
	Args        []string `yaml:"args"`
	DefaultRate int      `yaml:"defaultRate"`
	MinRate     int      `yaml:"minRate"`
	MaxRate     int      `yaml:"maxRate"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	// DEEPSEEK_API_KEY is the legacy .env name; LLM_API_KEY wins when both are set.
	setString(&cfg.LLM.APIKey, "DEEPSEEK_API_KEY")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")

	setString(&cfg.Weather.APIKey, "WEATHER_API_KEY")
	setString(&cfg.Weather.BaseURL, "WEATHER_BASE_URL")
	setString(&cfg.Weather.DefaultCity, "WEATHER_DEFAULT_CITY")

	setString(&cfg.Video.APIKey, "YOUTUBE_API_KEY")
	setString(&cfg.Video.BaseURL, "VIDEO_BASE_URL")
	setInt(&cfg.Video.MaxResults, "VIDEO_MAX_RESULTS")
	setString(&cfg.Video.Strategy, "VIDEO_STRATEGY")
	setDuration(&cfg.Video.CacheTTL, "VIDEO_CACHE_TTL")
	setBool(&cfg.Video.Redis.Enabled, "VIDEO_REDIS_ENABLED")
	setString(&cfg.Video.Redis.Addr, "VIDEO_REDIS_ADDR")

	setDuration(&cfg.Session.IdleTTL, "SESSION_IDLE_TTL")

	setString(&cfg.Speech.Binary, "SPEECH_BINARY")
	setInt(&cfg.Speech.DefaultRate, "SPEECH_DEFAULT_RATE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	upstreamRetry := UpstreamRetryConfig{
		MaxRetries:       2,
		InitialInterval:  200 * time.Millisecond,
		MaxInterval:      2 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/speech",
					"/sessions",
				},
			},
		},
		LLM: LLMConfig{
			BaseURL:       "https://api.deepseek.com/v1",
			Model:         "deepseek-chat",
			Temperature:   0.7,
			Timeout:       60 * time.Second,
			TokenEncoding: "cl100k_base",
		},
		Weather: WeatherConfig{
			BaseURL:     "http://api.weatherapi.com/v1",
			Timeout:     10 * time.Second,
			DefaultCity: "上海",
			Retry:       upstreamRetry,
		},
		Video: VideoConfig{
			BaseURL:    "https://www.googleapis.com/youtube/v3",
			Timeout:    10 * time.Second,
			MaxResults: 3,
			Strategy:   "auto",
			CacheTTL:   6 * time.Hour,
			Retry:      upstreamRetry,
			Redis: RedisConfig{
				Enabled: false,
				Prefix:  "smartchef:video",
			},
		},
		Session: SessionConfig{
			IdleTTL:       2 * time.Hour,
			SweepInterval: time.Minute,
			ContextTurns:  3,
			DisplayTurns:  5,
		},
		Speech: SpeechConfig{
			Binary:      "say",
			DefaultRate: 160,
			MinRate:     120,
			MaxRate:     240,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.apiKey cannot be empty (set LLM_API_KEY or DEEPSEEK_API_KEY)")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Video.MaxResults <= 0 || c.Video.MaxResults > 50 {
		return errors.New("video.maxResults must be between 1 and 50")
	}
	switch strings.ToLower(c.Video.Strategy) {
	case "auto", "topic", "dish":
	default:
		return fmt.Errorf("video.strategy %q must be auto, topic or dish", c.Video.Strategy)
	}
	if c.Video.CacheTTL < 0 {
		return errors.New("video.cacheTtl cannot be negative")
	}
	if c.Video.Redis.Enabled && strings.TrimSpace(c.Video.Redis.Addr) == "" {
		return errors.New("video.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idleTtl must be positive")
	}
	if c.Session.ContextTurns <= 0 || c.Session.DisplayTurns <= 0 {
		return errors.New("session.contextTurns and session.displayTurns must be positive")
	}
	if c.Speech.MinRate <= 0 || c.Speech.MaxRate < c.Speech.MinRate {
		return errors.New("speech.minRate must be positive and not above speech.maxRate")
	}
	if c.Speech.DefaultRate < c.Speech.MinRate || c.Speech.DefaultRate > c.Speech.MaxRate {
		return errors.New("speech.defaultRate must lie within [minRate, maxRate]")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
