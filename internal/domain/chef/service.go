package chef

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/session"
	"github.com/yanqian/smartchef/internal/domain/speech"
	"github.com/yanqian/smartchef/internal/domain/textclean"
	"github.com/yanqian/smartchef/internal/domain/video"
	"github.com/yanqian/smartchef/internal/domain/weather"
	"github.com/yanqian/smartchef/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/smartchef/pkg/errors"
	"github.com/yanqian/smartchef/pkg/metrics"
	"github.com/yanqian/smartchef/pkg/util"
)

const (
	defaultModel        = "deepseek-chat"
	defaultContextTurns = 3
	defaultDisplayTurns = 5
)

// Service drives one cooking conversation: weather, advice, videos, follow-ups and speech.
type Service interface {
	StartSession(ctx context.Context, lang string) (session.Session, error)
	EndSession(ctx context.Context, id uuid.UUID) error
	Session(ctx context.Context, id uuid.UUID) (session.Session, error)
	Weather(ctx context.Context, city, lang string) (weather.Report, error)
	GenerateAdvice(ctx context.Context, id uuid.UUID, req UserRequest) (AdviceResponse, error)
	Ask(ctx context.Context, id uuid.UUID, question string) (AskResponse, error)
	History(ctx context.Context, id uuid.UUID) ([]session.Turn, error)
	Speak(ctx context.Context, id uuid.UUID, rate int) (speech.Playback, error)
	StopSpeech(ctx context.Context, id, playbackID uuid.UUID) error
}

type service struct {
	cfg      Config
	sessions session.Service
	weather  weather.Service
	videos   video.Service
	speech   speech.Service
	chat     ChatClient
	tokens   metrics.TokenCounter
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the chef domain.
func NewService(cfg Config, deps Dependencies, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if cfg.ContextTurns <= 0 {
		cfg.ContextTurns = defaultContextTurns
	}
	if cfg.DisplayTurns <= 0 {
		cfg.DisplayTurns = defaultDisplayTurns
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = metrics.HeuristicCounter{}
	}
	return &service{
		cfg:      cfg,
		sessions: deps.Sessions,
		weather:  deps.Weather,
		videos:   deps.Videos,
		speech:   deps.Speech,
		chat:     deps.Chat,
		tokens:   tokens,
		logger:   logger.With("component", "chef.service"),
		now:      util.NowUTC,
	}
}

func (s *service) StartSession(ctx context.Context, lang string) (session.Session, error) {
	return s.sessions.Start(ctx, lang)
}

func (s *service) EndSession(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.End(ctx, id); err != nil {
		return err
	}
	if stopped := s.speech.StopSession(id); stopped > 0 {
		s.logger.Info("stopped playbacks of ended session", "sessionId", id, "count", stopped)
	}
	return nil
}

func (s *service) Session(ctx context.Context, id uuid.UUID) (session.Session, error) {
	return s.sessions.Get(ctx, id)
}

func (s *service) Weather(ctx context.Context, city, lang string) (weather.Report, error) {
	parsed, err := session.ParseLanguage(lang)
	if err != nil {
		return weather.Report{}, err
	}
	return s.weather.Lookup(ctx, city, parsed), nil
}

func (s *service) GenerateAdvice(ctx context.Context, id uuid.UUID, req UserRequest) (AdviceResponse, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return AdviceResponse{}, err
	}
	lang := sess.Language
	if strings.TrimSpace(req.Language) != "" {
		if lang, err = session.ParseLanguage(req.Language); err != nil {
			return AdviceResponse{}, err
		}
	}
	req.Language = lang

	report := s.weather.Lookup(ctx, req.City, lang)
	var weatherCtx *WeatherContext
	if report.Available {
		weatherCtx = &WeatherContext{Summary: report.Summary, Tip: report.Tip}
	}

	prompt := BuildAdvicePrompt(req, weatherCtx)
	raw, usage, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.Error("advice generation failed", "sessionId", id, "error", err)
		return AdviceResponse{}, err
	}

	advice := session.Advice{
		RawText:        raw,
		NormalizedText: textclean.Normalize(raw),
		CreatedAt:      s.now(),
	}
	recommendation := s.videos.Recommend(ctx, advice.NormalizedText, lang)

	_, err = s.sessions.Update(ctx, id, func(sess *session.Session) error {
		sess.Language = lang
		sess.Advice = &advice
		sess.Videos = recommendation.Videos
		sess.VideoQuery = recommendation.Query
		return nil
	})
	if err != nil {
		return AdviceResponse{}, err
	}
	s.logger.Info("advice generated",
		"sessionId", id,
		"category", report.Category,
		"videoQuery", recommendation.Query,
		"videos", len(recommendation.Videos),
		"totalTokens", usage.TotalTokens,
	)

	return AdviceResponse{
		SessionID:  id,
		Advice:     advice,
		Weather:    report,
		Videos:     recommendation.Videos,
		VideoQuery: recommendation.Query,
		Notice:     recommendation.Notice,
		Usage:      usage,
	}, nil
}

func (s *service) Ask(ctx context.Context, id uuid.UUID, question string) (AskResponse, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return AskResponse{}, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return AskResponse{
			SessionID: id,
			Skipped:   true,
			History:   sess.DisplayHistory(s.cfg.DisplayTurns),
		}, nil
	}

	prompt := BuildFollowUpPrompt(sess.RecentTurns(s.cfg.ContextTurns), question, sess.Language, s.cfg.ContextTurns)
	raw, usage, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("follow-up failed, history unchanged", "sessionId", id, "error", err)
		return AskResponse{}, err
	}
	answer := textclean.Normalize(raw)

	updated, err := s.sessions.Update(ctx, id, func(sess *session.Session) error {
		sess.History = append(sess.History, session.Turn{
			Question:  question,
			Answer:    answer,
			CreatedAt: s.now(),
		})
		return nil
	})
	if err != nil {
		return AskResponse{}, err
	}
	return AskResponse{
		SessionID: id,
		Question:  question,
		Answer:    answer,
		History:   updated.DisplayHistory(s.cfg.DisplayTurns),
		Usage:     usage,
	}, nil
}

func (s *service) History(ctx context.Context, id uuid.UUID) ([]session.Turn, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.DisplayHistory(s.cfg.DisplayTurns), nil
}

func (s *service) Speak(ctx context.Context, id uuid.UUID, rate int) (speech.Playback, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return speech.Playback{}, err
	}
	if sess.Advice == nil {
		return speech.Playback{}, apperrors.New(apperrors.CodeNoAdvice, "generate advice before reading it aloud")
	}
	return s.speech.Start(ctx, id, sess.Advice.NormalizedText, rate)
}

func (s *service) StopSpeech(ctx context.Context, id, playbackID uuid.UUID) error {
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	for _, pb := range s.speech.Active(id) {
		if pb.ID == playbackID {
			return s.speech.Stop(ctx, playbackID)
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "playback not found")
}

// complete sends a single user message and returns the raw first-choice content.
func (s *service) complete(ctx context.Context, prompt string) (string, metrics.TokenUsage, error) {
	resp, err := s.chat.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []chatgpt.Message{{Role: "user", Content: prompt}},
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chat request failed", err)
	}
	content, err := resp.FirstContent()
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chat response malformed", err)
	}
	usage := usageFrom(resp, s.tokens, prompt, content)
	metrics.ObserveTokens(usage)
	return content, usage, nil
}

func usageFrom(resp chatgpt.ChatCompletionResponse, counter metrics.TokenCounter, prompt, completion string) metrics.TokenUsage {
	if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
		return metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return metrics.EstimateUsage(counter, prompt, completion)
}
