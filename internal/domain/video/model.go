package video

import (
	"context"
	"time"
)

// Suggestion is one recommended video link.
type Suggestion struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result bundles the derived query with what the search returned.
type Result struct {
	Query  string       `json:"query"`
	Videos []Suggestion `json:"videos"`
	Notice string       `json:"notice,omitempty"`
}

// Config wires runtime behaviour of the recommender.
type Config struct {
	MaxResults int
	// Strategy is "auto", "topic" or "dish". Auto picks topic for zh and dish for en.
	Strategy string
	CacheTTL time.Duration
}

// Searcher runs a video search.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Suggestion, error)
}

// Cache stores search results per query.
type Cache interface {
	Get(ctx context.Context, key string) ([]Suggestion, bool, error)
	Set(ctx context.Context, key string, videos []Suggestion, ttl time.Duration) error
}
