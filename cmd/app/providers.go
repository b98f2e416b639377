package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/smartchef/internal/domain/chef"
	"github.com/yanqian/smartchef/internal/domain/session"
	"github.com/yanqian/smartchef/internal/domain/speech"
	"github.com/yanqian/smartchef/internal/domain/video"
	"github.com/yanqian/smartchef/internal/domain/weather"
	"github.com/yanqian/smartchef/internal/infra/config"
	"github.com/yanqian/smartchef/internal/infra/llm/chatgpt"
	"github.com/yanqian/smartchef/internal/infra/resilience"
	"github.com/yanqian/smartchef/internal/infra/sessionstore"
	"github.com/yanqian/smartchef/internal/infra/speech/say"
	"github.com/yanqian/smartchef/internal/infra/video/youtube"
	"github.com/yanqian/smartchef/internal/infra/videocache"
	"github.com/yanqian/smartchef/internal/infra/weather/weatherapi"
	"github.com/yanqian/smartchef/pkg/metrics"
)

func provideChefConfig(cfg *config.Config) chef.Config {
	return chef.Config{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		ContextTurns: cfg.Session.ContextTurns,
		DisplayTurns: cfg.Session.DisplayTurns,
	}
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
	}
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{DefaultCity: cfg.Weather.DefaultCity}
}

func provideVideoConfig(cfg *config.Config) video.Config {
	return video.Config{
		MaxResults: cfg.Video.MaxResults,
		Strategy:   cfg.Video.Strategy,
		CacheTTL:   cfg.Video.CacheTTL,
	}
}

func provideSpeechConfig(cfg *config.Config) speech.Config {
	return speech.Config{
		DefaultRate: cfg.Speech.DefaultRate,
		MinRate:     cfg.Speech.MinRate,
		MaxRate:     cfg.Speech.MaxRate,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideWeatherClient(cfg *config.Config) *weatherapi.Client {
	return weatherapi.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout, resilienceConfig(cfg.Weather.Retry))
}

func provideVideoSearcher(cfg *config.Config) *youtube.Client {
	return youtube.NewClient(cfg.Video.APIKey, cfg.Video.BaseURL, cfg.Video.Timeout, resilienceConfig(cfg.Video.Retry))
}

func resilienceConfig(r config.UpstreamRetryConfig) resilience.Config {
	return resilience.Config{
		MaxRetries:       r.MaxRetries,
		InitialInterval:  r.InitialInterval,
		MaxInterval:      r.MaxInterval,
		FailureThreshold: r.FailureThreshold,
		OpenTimeout:      r.OpenTimeout,
	}
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) metrics.TokenCounter {
	if strings.TrimSpace(cfg.LLM.TokenEncoding) == "" {
		return metrics.HeuristicCounter{}
	}
	return metrics.NewTiktokenCounter(cfg.LLM.TokenEncoding, logger)
}

func provideSessionStore() *sessionstore.MemoryStore {
	return sessionstore.NewMemoryStore()
}

func provideSynthesizer(cfg *config.Config) *say.Synthesizer {
	return say.NewSynthesizer(cfg.Speech.Binary, cfg.Speech.Args)
}

func provideVideoCache(cfg *config.Config, logger *slog.Logger) video.Cache {
	if cfg.Video.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return videocache.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return videocache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("video valkey cache enabled", "addr", cfg.Video.Redis.Addr)
			return videocache.NewValkeyCache(client, cfg.Video.Redis.Prefix)
		}
	}
	return videocache.NewMemoryCache()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Video.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.Video.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Video.Redis.Addr}}, nil
}

func provideChefDependencies(
	sessions session.Service,
	weatherSvc weather.Service,
	videos video.Service,
	speechSvc speech.Service,
	chat chef.ChatClient,
	tokens metrics.TokenCounter,
) chef.Dependencies {
	return chef.Dependencies{
		Sessions: sessions,
		Weather:  weatherSvc,
		Videos:   videos,
		Speech:   speechSvc,
		Chat:     chat,
		Tokens:   tokens,
	}
}
