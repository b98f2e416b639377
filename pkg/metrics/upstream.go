package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream names used as the "upstream" label.
const (
	UpstreamChat    = "chat"
	UpstreamWeather = "weather"
	UpstreamVideo   = "video"
	UpstreamSpeech  = "speech"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchef_upstream_requests_total",
			Help: "Outbound calls grouped by upstream and outcome",
		},
		[]string{"upstream", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartchef_upstream_duration_seconds",
			Help:    "Latency of outbound calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchef_llm_tokens_total",
			Help: "Tokens consumed by chat completions",
		},
		[]string{"kind"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smartchef_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
)

// ObserveUpstream records one outbound call started at begin.
func ObserveUpstream(upstream string, begin time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(upstream, outcome).Inc()
	UpstreamDuration.WithLabelValues(upstream).Observe(time.Since(begin).Seconds())
}

// ObserveTokens adds usage to the token counters.
func ObserveTokens(u TokenUsage) {
	if u.IsZero() {
		return
	}
	LLMTokens.WithLabelValues("prompt").Add(float64(u.PromptTokens))
	LLMTokens.WithLabelValues("completion").Add(float64(u.CompletionTokens))
}
