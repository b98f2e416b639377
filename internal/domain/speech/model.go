package speech

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Playback is the handle returned when speech starts; it is the only way to stop it.
type Playback struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"sessionId"`
	Rate      int       `json:"rate"`
	StartedAt time.Time `json:"startedAt"`
}

// Process is one running synthesis.
type Process interface {
	Wait() error
	Stop() error
}

// Synthesizer starts reading text aloud at rate words per minute.
type Synthesizer interface {
	Start(ctx context.Context, text string, rate int) (Process, error)
}

// Config bounds the speaking rate.
type Config struct {
	DefaultRate int
	MinRate     int
	MaxRate     int
}
