//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/smartchef/internal/bootstrap"
	"github.com/yanqian/smartchef/internal/domain/chef"
	"github.com/yanqian/smartchef/internal/domain/session"
	"github.com/yanqian/smartchef/internal/domain/speech"
	"github.com/yanqian/smartchef/internal/domain/video"
	"github.com/yanqian/smartchef/internal/domain/weather"
	"github.com/yanqian/smartchef/internal/infra/config"
	"github.com/yanqian/smartchef/internal/infra/llm/chatgpt"
	"github.com/yanqian/smartchef/internal/infra/sessionstore"
	"github.com/yanqian/smartchef/internal/infra/speech/say"
	"github.com/yanqian/smartchef/internal/infra/video/youtube"
	"github.com/yanqian/smartchef/internal/infra/weather/weatherapi"
	httpiface "github.com/yanqian/smartchef/internal/interface/http"
	"github.com/yanqian/smartchef/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChefConfig,
		provideSessionConfig,
		provideWeatherConfig,
		provideVideoConfig,
		provideSpeechConfig,
		provideChatGPTClient,
		provideWeatherClient,
		provideVideoSearcher,
		provideVideoCache,
		provideTokenCounter,
		provideSessionStore,
		provideSynthesizer,
		provideChefDependencies,
		session.NewService,
		weather.NewService,
		video.NewService,
		speech.NewService,
		chef.NewService,
		wire.Bind(new(chef.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(weather.Client), new(*weatherapi.Client)),
		wire.Bind(new(video.Searcher), new(*youtube.Client)),
		wire.Bind(new(session.Store), new(*sessionstore.MemoryStore)),
		wire.Bind(new(speech.Synthesizer), new(*say.Synthesizer)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
