package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/smartchef/pkg/errors"
	"github.com/yanqian/smartchef/pkg/metrics"
	"github.com/yanqian/smartchef/pkg/util"
)

// Service tracks playbacks by handle.
type Service interface {
	Start(ctx context.Context, sessionID uuid.UUID, text string, rate int) (Playback, error)
	Stop(ctx context.Context, playbackID uuid.UUID) error
	StopSession(sessionID uuid.UUID) int
	// StopAll stops every running playback, used when the process shuts down.
	StopAll() int
	Active(sessionID uuid.UUID) []Playback
}

type running struct {
	playback Playback
	proc     Process
}

type service struct {
	cfg    Config
	synth  Synthesizer
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	running map[uuid.UUID]running
}

// NewService wires the playback registry.
func NewService(cfg Config, synth Synthesizer, logger *slog.Logger) Service {
	if cfg.MinRate <= 0 {
		cfg.MinRate = 120
	}
	if cfg.MaxRate < cfg.MinRate {
		cfg.MaxRate = 240
	}
	if cfg.DefaultRate <= 0 {
		cfg.DefaultRate = 160
	}
	cfg.DefaultRate = util.ClampInt(cfg.DefaultRate, cfg.MinRate, cfg.MaxRate)
	return &service{
		cfg:     cfg,
		synth:   synth,
		logger:  logger.With("component", "speech.service"),
		now:     util.NowUTC,
		running: make(map[uuid.UUID]running),
	}
}

// ClampRate maps 0 to the default and bounds other values.
func (s *service) ClampRate(rate int) int {
	if rate == 0 {
		return s.cfg.DefaultRate
	}
	return util.ClampInt(rate, s.cfg.MinRate, s.cfg.MaxRate)
}

func (s *service) Start(ctx context.Context, sessionID uuid.UUID, text string, rate int) (Playback, error) {
	if strings.TrimSpace(text) == "" {
		return Playback{}, apperrors.New(apperrors.CodeInvalidInput, "nothing to read aloud")
	}
	rate = s.ClampRate(rate)

	begin := time.Now()
	proc, err := s.synth.Start(ctx, text, rate)
	metrics.ObserveUpstream(metrics.UpstreamSpeech, begin, err)
	if err != nil {
		return Playback{}, apperrors.Wrap(apperrors.CodeSpeech, "failed to start speech", err)
	}

	pb := Playback{ID: uuid.New(), SessionID: sessionID, Rate: rate, StartedAt: s.now()}
	s.mu.Lock()
	s.running[pb.ID] = running{playback: pb, proc: proc}
	s.mu.Unlock()
	s.logger.Info("speech started", "playbackId", pb.ID, "sessionId", sessionID, "rate", rate)

	go s.reap(pb.ID, proc)
	return pb, nil
}

func (s *service) reap(id uuid.UUID, proc Process) {
	err := proc.Wait()
	s.mu.Lock()
	delete(s.running, id)
	s.mu.Unlock()
	if err != nil {
		s.logger.Debug("speech process exited", "playbackId", id, "error", err)
	}
}

func (s *service) Stop(_ context.Context, playbackID uuid.UUID) error {
	s.mu.Lock()
	r, ok := s.running[playbackID]
	delete(s.running, playbackID)
	s.mu.Unlock()
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "playback not found")
	}
	if err := r.proc.Stop(); err != nil {
		return apperrors.Wrap(apperrors.CodeSpeech, "failed to stop speech", err)
	}
	s.logger.Info("speech stopped", "playbackId", playbackID)
	return nil
}

func (s *service) StopSession(sessionID uuid.UUID) int {
	return s.stopWhere(func(pb Playback) bool { return pb.SessionID == sessionID })
}

func (s *service) StopAll() int {
	return s.stopWhere(func(Playback) bool { return true })
}

func (s *service) stopWhere(match func(Playback) bool) int {
	s.mu.Lock()
	var victims []running
	for id, r := range s.running {
		if match(r.playback) {
			victims = append(victims, r)
			delete(s.running, id)
		}
	}
	s.mu.Unlock()
	for _, r := range victims {
		if err := r.proc.Stop(); err != nil {
			s.logger.Warn("failed to stop speech", "playbackId", r.playback.ID, "error", err)
		}
	}
	return len(victims)
}

func (s *service) Active(sessionID uuid.UUID) []Playback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Playback, 0)
	for _, r := range s.running {
		if r.playback.SessionID == sessionID {
			out = append(out, r.playback)
		}
	}
	return out
}
