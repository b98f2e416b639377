// Package weatherapi reads current conditions from WeatherAPI.com.
package weatherapi

import (
	"bytes"
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

	"github.com/yanqian/smartchef/internal/domain/weather"
	"github.com/yanqian/smartchef/internal/infra/resilience"
	"github.com/yanqian/smartchef/pkg/metrics"
)

const defaultBaseURL = "http://api.weatherapi.com/v1"

// Client fetches current weather through the guarded HTTP executor.
type Client struct {
	apiKey  string
	baseURL string
	doer    *resilience.Doer
}

// NewClient builds an API client. An empty key is accepted; every lookup then fails
// and the domain falls back to the unavailable report.
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
		doer:    resilience.NewDoer("weatherapi", &http.Client{Timeout: timeout}, retry),
	}
}

// Current implements weather.Client.
func (c *Client) Current(ctx context.Context, city, lang string) (reading weather.Reading, err error) {
	if c.apiKey == "" {
		return weather.Reading{}, errors.New("weather api key not configured")
	}
	begin := time.Now()
	defer func() { metrics.ObserveUpstream(metrics.UpstreamWeather, begin, err) }()

	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", city)
	query.Set("lang", lang)
	endpoint := c.baseURL + "/current.json?" + query.Encode()

	resp, err := c.doer.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return weather.Reading{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("read weather response: %w", err)
	}
	return decodeCurrent(body)
}

type apiResponse struct {
	Current *struct {
		TempC     json.RawMessage `json:"temp_c"`
		Condition *struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func decodeCurrent(body []byte) (weather.Reading, error) {
	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.Reading{}, fmt.Errorf("decode weather response: %w", err)
	}
	if raw.Current == nil || raw.Current.Condition == nil {
		return weather.Reading{}, errors.New("weather response missing current condition")
	}
	temp, err := parseTemperature(raw.Current.TempC)
	if err != nil {
		return weather.Reading{}, err
	}
	return weather.Reading{
		Condition:    strings.TrimSpace(raw.Current.Condition.Text),
		TemperatureC: temp,
	}, nil
}

// parseTemperature accepts a JSON number or a numeric string.
func parseTemperature(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return 0, errors.New("weather response missing temp_c")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, fmt.Errorf("decode temp_c: %w", err)
		}
		trimmed = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable temp_c %q: %w", string(raw), err)
	}
	return v, nil
}

var _ weather.Client = (*Client)(nil)
