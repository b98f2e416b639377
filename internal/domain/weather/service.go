package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Service exposes the weather panel lookup. It never fails; upstream errors degrade to
// an unavailable report.
type Service interface {
	Lookup(ctx context.Context, city, lang string) Report
}

type service struct {
	cfg    Config
	client Client
	logger *slog.Logger
}

// NewService wires up the weather domain.
func NewService(cfg Config, client Client, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.DefaultCity) == "" {
		cfg.DefaultCity = "上海"
	}
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "weather.service"),
	}
}

func (s *service) Lookup(ctx context.Context, city, lang string) Report {
	lang = normalizeLang(lang)
	city = strings.TrimSpace(city)
	if city == "" {
		city = s.cfg.DefaultCity
	}
	resolved := ResolveCity(city)

	report := Report{City: city, ResolvedCity: resolved}
	reading, err := s.client.Current(ctx, resolved, lang)
	if err != nil {
		s.logger.Warn("weather lookup failed", "city", resolved, "error", err)
		report.Summary = UnavailableSummary(lang)
		report.Category = CategoryMild
	} else {
		report.Summary = FormatSummary(reading)
		report.Category = Classify(reading.Condition, reading.TemperatureC)
		report.Available = true
		s.logger.Info("weather fetched", "city", resolved, "category", report.Category)
	}
	report.Dishes = SeasonalDishes(report.Category, lang)
	report.Tip = Tip(report.Category, lang)
	return report
}

// FormatSummary renders "<condition>, <temp>°C".
func FormatSummary(r Reading) string {
	return fmt.Sprintf("%s, %s°C", r.Condition, strconv.FormatFloat(r.TemperatureC, 'g', -1, 64))
}
