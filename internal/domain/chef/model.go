package chef

import (
	"context"

	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/session"
	"github.com/yanqian/smartchef/internal/domain/speech"
	"github.com/yanqian/smartchef/internal/domain/video"
	"github.com/yanqian/smartchef/internal/domain/weather"
	"github.com/yanqian/smartchef/internal/infra/llm/chatgpt"
	"github.com/yanqian/smartchef/pkg/metrics"
)

// UserRequest is one submission of the advice form. Fields are embedded in the prompt as is.
type UserRequest struct {
	City              string `json:"city"`
	Ingredients       string `json:"ingredients"`
	DietaryPreference string `json:"dietaryPreference"`
	HealthGoal        string `json:"healthGoal"`
	Language          string `json:"language"`
}

// WeatherContext is the part of the weather report fed to the model.
type WeatherContext struct {
	Summary string
	Tip     string
}

// AdviceResponse is returned after a successful generation.
type AdviceResponse struct {
	SessionID  uuid.UUID          `json:"sessionId"`
	Advice     session.Advice     `json:"advice"`
	Weather    weather.Report     `json:"weather"`
	Videos     []video.Suggestion `json:"videos"`
	VideoQuery string             `json:"videoQuery"`
	Notice     string             `json:"notice,omitempty"`
	Usage      metrics.TokenUsage `json:"usage"`
}

// AskResponse is returned for a follow-up question. Skipped is set for blank questions.
type AskResponse struct {
	SessionID uuid.UUID          `json:"sessionId"`
	Skipped   bool               `json:"skipped"`
	Question  string             `json:"question,omitempty"`
	Answer    string             `json:"answer,omitempty"`
	History   []session.Turn     `json:"history"`
	Usage     metrics.TokenUsage `json:"usage"`
}

// Config wires runtime dependencies for the chef domain.
type Config struct {
	Model        string
	Temperature  float32
	ContextTurns int
	DisplayTurns int
}

// ChatClient is the subset of the chat API the flow needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Dependencies groups the collaborating domain services.
type Dependencies struct {
	Sessions session.Service
	Weather  weather.Service
	Videos   video.Service
	Speech   speech.Service
	Chat     ChatClient
	Tokens   metrics.TokenCounter
}
