package video

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/smartchef/internal/domain/keywords"
)

const (
	StrategyAuto      = "auto"
	defaultMaxResults = 3
)

var emptyNotice = map[string]string{
	"zh": "🍳 Chef助手没找到相关视频，可以换个关键词试试~",
	"en": "🍳 Chef couldn't find related videos. Try different keywords~",
}

// Service recommends videos for a piece of advice. Search failures are absorbed into an
// empty list with a notice.
type Service interface {
	Recommend(ctx context.Context, advice, lang string) Result
}

type service struct {
	cfg      Config
	searcher Searcher
	cache    Cache
	logger   *slog.Logger
}

// NewService wires the recommender. cache may be nil.
func NewService(cfg Config, searcher Searcher, cache Cache, logger *slog.Logger) Service {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if strings.TrimSpace(cfg.Strategy) == "" {
		cfg.Strategy = StrategyAuto
	}
	return &service{
		cfg:      cfg,
		searcher: searcher,
		cache:    cache,
		logger:   logger.With("component", "video.service"),
	}
}

func (s *service) Recommend(ctx context.Context, advice, lang string) Result {
	strategy := s.strategyFor(lang)
	query := keywords.Query(strategy, advice)
	res := Result{Query: query, Videos: []Suggestion{}}

	videos, err := s.search(ctx, query)
	if err != nil {
		s.logger.Warn("video search failed", "query", query, "strategy", strategy.Name(), "error", err)
	} else {
		res.Videos = videos
	}
	if len(res.Videos) == 0 {
		res.Notice = noticeFor(lang)
	}
	return res
}

func (s *service) strategyFor(lang string) keywords.Strategy {
	if strings.EqualFold(s.cfg.Strategy, StrategyAuto) {
		if strings.EqualFold(lang, "en") {
			return keywords.Resolve(keywords.StrategyDish)
		}
		return keywords.Resolve(keywords.StrategyTopic)
	}
	return keywords.Resolve(s.cfg.Strategy)
}

func (s *service) search(ctx context.Context, query string) ([]Suggestion, error) {
	key := fmt.Sprintf("%d:%s", s.cfg.MaxResults, query)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("video cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	videos, err := s.searcher.Search(ctx, query, s.cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	if len(videos) > s.cfg.MaxResults {
		videos = videos[:s.cfg.MaxResults]
	}
	if s.cache != nil && len(videos) > 0 {
		if err := s.cache.Set(ctx, key, videos, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("video cache write failed", "error", err)
		}
	}
	return videos, nil
}

func noticeFor(lang string) string {
	if strings.EqualFold(lang, "en") {
		return emptyNotice["en"]
	}
	return emptyNotice["zh"]
}
