// Package youtube searches videos through the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/smartchef/internal/domain/video"
	"github.com/yanqian/smartchef/internal/infra/resilience"
	"github.com/yanqian/smartchef/pkg/metrics"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	watchURL       = "https://www.youtube.com/watch?v="
)

// Client implements video.Searcher.
type Client struct {
	apiKey  string
	baseURL string
	doer    *resilience.Doer
}

// NewClient builds a search client.
func NewClient(apiKey, baseURL string, timeout time.Duration, retry resilience.Config) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(base, "/"),
		doer:    resilience.NewDoer("youtube", &http.Client{Timeout: timeout}, retry),
	}
}

// Search runs a video-only search and maps items to watch links.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (out []video.Suggestion, err error) {
	if c.apiKey == "" {
		return nil, errors.New("youtube api key not configured")
	}
	begin := time.Now()
	defer func() { metrics.ObserveUpstream(metrics.UpstreamVideo, begin, err) }()

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("q", query)
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/search?" + params.Encode()

	resp, err := c.doer.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("video search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read video search response: %w", err)
	}
	return decodeSearch(body)
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

func decodeSearch(body []byte) ([]video.Suggestion, error) {
	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode video search response: %w", err)
	}
	out := make([]video.Suggestion, 0, len(raw.Items))
	for _, item := range raw.Items {
		if item.ID.VideoID == "" {
			continue
		}
		out = append(out, video.Suggestion{
			Title: item.Snippet.Title,
			URL:   watchURL + item.ID.VideoID,
		})
	}
	return out, nil
}

var _ video.Searcher = (*Client)(nil)
