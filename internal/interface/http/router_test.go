package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/smartchef/internal/domain/chef"
	"github.com/yanqian/smartchef/internal/domain/session"
	"github.com/yanqian/smartchef/internal/domain/speech"
	"github.com/yanqian/smartchef/internal/domain/weather"
	"github.com/yanqian/smartchef/internal/infra/config"
	apperrors "github.com/yanqian/smartchef/pkg/errors"
)

func TestRouter_StartSession(t *testing.T) {
	id := uuid.New()
	svc := &stubChef{
		startFn: func(ctx context.Context, lang string) (session.Session, error) {
			require.Equal(t, "en", lang)
			return session.Session{ID: id, Language: lang, History: []session.Turn{}}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions", `{"language":"en"}`, newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var got session.Session
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, id, got.ID)
	require.Equal(t, "en", got.Language)
}

func TestRouter_StartSessionWithoutBody(t *testing.T) {
	svc := &stubChef{
		startFn: func(ctx context.Context, lang string) (session.Session, error) {
			require.Empty(t, lang)
			return session.Session{ID: uuid.New(), Language: session.LangZH}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions", "", newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusCreated, recorder.Code)
}

func TestRouter_InvalidSessionID(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid", "", newRouterUnderTest(t, &stubChef{}, config.HTTPConfig{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, apperrors.CodeInvalidInput, errBody["error"]["code"])
	require.Equal(t, "invalid session id", errBody["error"]["message"])
}

func TestRouter_SessionNotFound(t *testing.T) {
	svc := &stubChef{
		getFn: func(ctx context.Context, id uuid.UUID) (session.Session, error) {
			return session.Session{}, apperrors.Wrap(apperrors.CodeNotFound, "session not found", session.ErrNotFound)
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), "", newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusNotFound, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, apperrors.CodeNotFound, errBody["error"]["code"])
	require.Equal(t, "session not found", errBody["error"]["message"])
}

func TestRouter_EndSession(t *testing.T) {
	id := uuid.New()
	var ended uuid.UUID
	svc := &stubChef{
		endFn: func(ctx context.Context, got uuid.UUID) error {
			ended = got
			return nil
		},
	}

	recorder := performRequest(http.MethodDelete, "/api/v1/sessions/"+id.String(), "", newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, id, ended)
}

func TestRouter_GenerateAdvice(t *testing.T) {
	id := uuid.New()
	svc := &stubChef{
		adviceFn: func(ctx context.Context, got uuid.UUID, req chef.UserRequest) (chef.AdviceResponse, error) {
			require.Equal(t, id, got)
			require.Equal(t, "Beijing", req.City)
			require.Equal(t, "tofu", req.Ingredients)
			return chef.AdviceResponse{SessionID: id, Advice: session.Advice{NormalizedText: "Steamed tofu"}, VideoQuery: "Steamed Tofu"}, nil
		},
	}

	body := `{"city":"Beijing","ingredients":"tofu","dietaryPreference":"vegan","healthGoal":"energy","language":"en"}`
	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+id.String()+"/advice", body, newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got chef.AdviceResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Steamed tofu", got.Advice.NormalizedText)
	require.Equal(t, "Steamed Tofu", got.VideoQuery)
}

func TestRouter_GenerateAdviceLLMFailureHidesUpstreamDetail(t *testing.T) {
	svc := &stubChef{
		adviceFn: func(ctx context.Context, id uuid.UUID, req chef.UserRequest) (chef.AdviceResponse, error) {
			return chef.AdviceResponse{}, apperrors.Wrap(apperrors.CodeLLM, "chat completion failed", io.ErrUnexpectedEOF)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/advice", `{"city":"Shanghai"}`, newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, apperrors.CodeLLM, errBody["error"]["code"])
	require.Equal(t, "chat completion failed", errBody["error"]["message"])
}

func TestRouter_AskInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/questions", `{"question":1}`, newRouterUnderTest(t, &stubChef{}, config.HTTPConfig{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, apperrors.CodeInvalidInput, errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_Ask(t *testing.T) {
	svc := &stubChef{
		askFn: func(ctx context.Context, id uuid.UUID, question string) (chef.AskResponse, error) {
			require.Equal(t, "Can I bake it?", question)
			return chef.AskResponse{SessionID: id, Question: question, Answer: "Yes", History: []session.Turn{{Question: question, Answer: "Yes"}}}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/questions", `{"question":"Can I bake it?"}`, newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got chef.AskResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Yes", got.Answer)
	require.Len(t, got.History, 1)
}

func TestRouter_SpeakWithoutAdvice(t *testing.T) {
	svc := &stubChef{
		speakFn: func(ctx context.Context, id uuid.UUID, rate int) (speech.Playback, error) {
			require.Equal(t, 180, rate)
			return speech.Playback{}, apperrors.Wrap(apperrors.CodeNoAdvice, "no advice to read", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/speech", `{"rate":180}`, newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusConflict, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, apperrors.CodeNoAdvice, errBody["error"]["code"])
}

func TestRouter_StopSpeech(t *testing.T) {
	id, playbackID := uuid.New(), uuid.New()
	svc := &stubChef{
		stopFn: func(ctx context.Context, gotID, gotPlayback uuid.UUID) error {
			require.Equal(t, id, gotID)
			require.Equal(t, playbackID, gotPlayback)
			return nil
		},
	}

	path := "/api/v1/sessions/" + id.String() + "/speech/" + playbackID.String()
	recorder := performRequest(http.MethodDelete, path, "", newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRouter_Weather(t *testing.T) {
	svc := &stubChef{
		weatherFn: func(ctx context.Context, city, lang string) (weather.Report, error) {
			require.Equal(t, "Beijing", city)
			require.Equal(t, "en", lang)
			return weather.Report{City: city, ResolvedCity: city, Category: weather.CategoryCold, Available: true}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/weather?city=Beijing&language=en", "", newRouterUnderTest(t, svc, config.HTTPConfig{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got weather.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, weather.CategoryCold, got.Category)
}

func TestRouter_Locales(t *testing.T) {
	server := newRouterUnderTest(t, &stubChef{}, config.HTTPConfig{})

	recorder := performRequest(http.MethodGet, "/api/v1/locales/en", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Language string            `json:"language"`
		Labels   map[string]string `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "en", body.Language)
	require.NotEmpty(t, body.Labels)

	recorder = performRequest(http.MethodGet, "/api/v1/locales/fr", "", server)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRouter_RateLimited(t *testing.T) {
	httpCfg := config.HTTPConfig{RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}}
	server := newRouterUnderTest(t, &stubChef{}, httpCfg)

	require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/api/v1/locales/zh", "", server).Code)

	recorder := performRequest(http.MethodGet, "/api/v1/locales/zh", "", server)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get("Retry-After"))
	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "rate_limit_exceeded", errBody["error"]["code"])
}

func TestRouter_RetriesTransientAdviceFailure(t *testing.T) {
	calls := 0
	svc := &stubChef{
		adviceFn: func(ctx context.Context, id uuid.UUID, req chef.UserRequest) (chef.AdviceResponse, error) {
			calls++
			require.Equal(t, "Shanghai", req.City)
			if calls == 1 {
				return chef.AdviceResponse{}, apperrors.Wrap(apperrors.CodeInternal, "store hiccup", nil)
			}
			return chef.AdviceResponse{SessionID: id}, nil
		},
	}
	httpCfg := config.HTTPConfig{Retry: config.RetryConfig{Enabled: true, MaxAttempts: 2, Exclude: []string{"/speech", "/sessions"}}}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/advice", `{"city":"Shanghai"}`, newRouterUnderTest(t, svc, httpCfg))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 2, calls)
}

func TestRouter_RetryDoesNotReplayLLMFailure(t *testing.T) {
	calls := 0
	svc := &stubChef{
		adviceFn: func(ctx context.Context, id uuid.UUID, req chef.UserRequest) (chef.AdviceResponse, error) {
			calls++
			return chef.AdviceResponse{}, apperrors.Wrap(apperrors.CodeLLM, "chat request failed", io.ErrUnexpectedEOF)
		},
	}
	httpCfg := config.HTTPConfig{Retry: config.RetryConfig{Enabled: true, MaxAttempts: 3}}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/advice", `{"city":"Shanghai"}`, newRouterUnderTest(t, svc, httpCfg))
	require.Equal(t, http.StatusBadGateway, recorder.Code)
	require.Equal(t, 1, calls)
}

func TestTransientStatus(t *testing.T) {
	require.True(t, transientStatus(http.StatusInternalServerError))
	require.True(t, transientStatus(http.StatusServiceUnavailable))
	require.False(t, transientStatus(http.StatusBadGateway))
	require.False(t, transientStatus(http.StatusNotImplemented))
	require.False(t, transientStatus(http.StatusConflict))
}

func TestRouter_RetrySkipsExcludedSuffix(t *testing.T) {
	calls := 0
	svc := &stubChef{
		speakFn: func(ctx context.Context, id uuid.UUID, rate int) (speech.Playback, error) {
			calls++
			return speech.Playback{}, apperrors.Wrap(apperrors.CodeSpeech, "synthesizer failed", nil)
		},
	}
	httpCfg := config.HTTPConfig{Retry: config.RetryConfig{Enabled: true, MaxAttempts: 3, Exclude: []string{"/speech"}}}

	recorder := performRequest(http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/speech", `{}`, newRouterUnderTest(t, svc, httpCfg))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, 1, calls)
}

func TestIPRateLimiterRefills(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_, ok := limiter.reserve("10.0.0.1", now)
	require.True(t, ok)
	_, ok = limiter.reserve("10.0.0.1", now)
	require.True(t, ok)

	wait, ok := limiter.reserve("10.0.0.1", now)
	require.False(t, ok)
	require.Equal(t, time.Second, wait)

	_, ok = limiter.reserve("10.0.0.2", now)
	require.True(t, ok, "buckets are per ip")

	_, ok = limiter.reserve("10.0.0.1", now.Add(time.Second))
	require.True(t, ok)
}

func TestRouter_CORSPreflight(t *testing.T) {
	httpCfg := config.HTTPConfig{AllowedOrigins: []string{"http://localhost:5173"}}
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	newRouterUnderTest(t, &stubChef{}, httpCfg).Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRouter_Healthz(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubChef{}, config.HTTPConfig{}))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc chef.Service, httpCfg config.HTTPConfig) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	httpCfg.Address = ":0"
	httpCfg.ReadTimeout = time.Second
	httpCfg.WriteTimeout = time.Second
	return NewRouter(&config.Config{HTTP: httpCfg}, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubChef struct {
	startFn   func(ctx context.Context, lang string) (session.Session, error)
	endFn     func(ctx context.Context, id uuid.UUID) error
	getFn     func(ctx context.Context, id uuid.UUID) (session.Session, error)
	weatherFn func(ctx context.Context, city, lang string) (weather.Report, error)
	adviceFn  func(ctx context.Context, id uuid.UUID, req chef.UserRequest) (chef.AdviceResponse, error)
	askFn     func(ctx context.Context, id uuid.UUID, question string) (chef.AskResponse, error)
	historyFn func(ctx context.Context, id uuid.UUID) ([]session.Turn, error)
	speakFn   func(ctx context.Context, id uuid.UUID, rate int) (speech.Playback, error)
	stopFn    func(ctx context.Context, id, playbackID uuid.UUID) error
}

func (s *stubChef) StartSession(ctx context.Context, lang string) (session.Session, error) {
	if s.startFn != nil {
		return s.startFn(ctx, lang)
	}
	return session.Session{ID: uuid.New()}, nil
}

func (s *stubChef) EndSession(ctx context.Context, id uuid.UUID) error {
	if s.endFn != nil {
		return s.endFn(ctx, id)
	}
	return nil
}

func (s *stubChef) Session(ctx context.Context, id uuid.UUID) (session.Session, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return session.Session{ID: id}, nil
}

func (s *stubChef) Weather(ctx context.Context, city, lang string) (weather.Report, error) {
	if s.weatherFn != nil {
		return s.weatherFn(ctx, city, lang)
	}
	return weather.Report{}, nil
}

func (s *stubChef) GenerateAdvice(ctx context.Context, id uuid.UUID, req chef.UserRequest) (chef.AdviceResponse, error) {
	if s.adviceFn != nil {
		return s.adviceFn(ctx, id, req)
	}
	return chef.AdviceResponse{SessionID: id}, nil
}

func (s *stubChef) Ask(ctx context.Context, id uuid.UUID, question string) (chef.AskResponse, error) {
	if s.askFn != nil {
		return s.askFn(ctx, id, question)
	}
	return chef.AskResponse{SessionID: id}, nil
}

func (s *stubChef) History(ctx context.Context, id uuid.UUID) ([]session.Turn, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, id)
	}
	return []session.Turn{}, nil
}

func (s *stubChef) Speak(ctx context.Context, id uuid.UUID, rate int) (speech.Playback, error) {
	if s.speakFn != nil {
		return s.speakFn(ctx, id, rate)
	}
	return speech.Playback{ID: uuid.New(), SessionID: id, Rate: rate}, nil
}

func (s *stubChef) StopSpeech(ctx context.Context, id, playbackID uuid.UUID) error {
	if s.stopFn != nil {
		return s.stopFn(ctx, id, playbackID)
	}
	return nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
