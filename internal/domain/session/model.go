package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/video"
)

// Supported languages.
const (
	LangZH = "zh"
	LangEN = "en"
)

// ErrNotFound is returned by stores for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Advice is the latest generated cooking advice of a session.
type Advice struct {
	RawText        string    `json:"rawText"`
	NormalizedText string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Turn is one follow-up question and its answer.
type Turn struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the explicit conversation context shared by all requests of one user.
type Session struct {
	ID           uuid.UUID          `json:"id"`
	Language     string             `json:"language"`
	CreatedAt    time.Time          `json:"createdAt"`
	LastActiveAt time.Time          `json:"lastActiveAt"`
	Advice       *Advice            `json:"advice,omitempty"`
	Videos       []video.Suggestion `json:"videos"`
	VideoQuery   string             `json:"videoQuery,omitempty"`
	History      []Turn             `json:"history"`
}

// Clone returns a deep copy safe to hand outside the store.
func (s Session) Clone() Session {
	out := s
	if s.Advice != nil {
		advice := *s.Advice
		out.Advice = &advice
	}
	out.Videos = append([]video.Suggestion{}, s.Videos...)
	out.History = append([]Turn{}, s.History...)
	return out
}

// RecentTurns returns up to n of the latest turns in chronological order.
func (s Session) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	return append([]Turn(nil), s.History[start:]...)
}

// DisplayHistory returns up to n of the latest turns, newest first.
func (s Session) DisplayHistory(n int) []Turn {
	recent := s.RecentTurns(n)
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	if recent == nil {
		return []Turn{}
	}
	return recent
}

// Config wires runtime behaviour of the session domain.
type Config struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Store keeps sessions. Update runs fn under the session's own lock.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIdle(ctx context.Context, before time.Time) ([]uuid.UUID, error)
	Count() int
}
