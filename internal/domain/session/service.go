package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/video"
	apperrors "github.com/yanqian/smartchef/pkg/errors"
	"github.com/yanqian/smartchef/pkg/metrics"
)

// Service owns the session lifecycle.
type Service interface {
	Start(ctx context.Context, lang string) (Session, error)
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error)
	End(ctx context.Context, id uuid.UUID) error
	// RunSweeper drops idle sessions until ctx is cancelled. onExpire sees each dropped id.
	RunSweeper(ctx context.Context, onExpire func(uuid.UUID))
}

type service struct {
	cfg    Config
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the session domain.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &service{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "session.service"),
		now:    time.Now,
	}
}

// ParseLanguage accepts zh or en; empty means zh.
func ParseLanguage(lang string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", LangZH:
		return LangZH, nil
	case LangEN:
		return LangEN, nil
	default:
		return "", apperrors.New(apperrors.CodeInvalidInput, "language must be zh or en")
	}
}

func (s *service) Start(ctx context.Context, lang string) (Session, error) {
	parsed, err := ParseLanguage(lang)
	if err != nil {
		return Session{}, err
	}
	now := s.now().UTC()
	sess := Session{
		ID:           uuid.New(),
		Language:     parsed,
		CreatedAt:    now,
		LastActiveAt: now,
		Videos:       []video.Suggestion{},
		History:      []Turn{},
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeInternal, "failed to create session", err)
	}
	metrics.ActiveSessions.Set(float64(s.store.Count()))
	s.logger.Info("session started", "sessionId", sess.ID, "language", parsed)
	return sess, nil
}

// Get returns a snapshot and counts as activity, so sessions that are only read stay alive.
func (s *service) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		sess.LastActiveAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Session{}, s.mapErr(err)
	}
	return sess, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error) {
	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		sess.LastActiveAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Session{}, s.mapErr(err)
	}
	return sess, nil
}

func (s *service) End(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapErr(err)
	}
	metrics.ActiveSessions.Set(float64(s.store.Count()))
	s.logger.Info("session ended", "sessionId", id)
	return nil
}

func (s *service) RunSweeper(ctx context.Context, onExpire func(uuid.UUID)) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, onExpire)
		}
	}
}

func (s *service) sweep(ctx context.Context, onExpire func(uuid.UUID)) {
	expired, err := s.store.DeleteIdle(ctx, s.now().UTC().Add(-s.cfg.IdleTTL))
	if err != nil {
		s.logger.Warn("session sweep failed", "error", err)
		return
	}
	for _, id := range expired {
		if onExpire != nil {
			onExpire(id)
		}
	}
	if len(expired) > 0 {
		metrics.ActiveSessions.Set(float64(s.store.Count()))
		s.logger.Info("idle sessions expired", "count", len(expired))
	}
}

func (s *service) mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, "session not found", err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.CodeInternal, "session store failure", err)
}
