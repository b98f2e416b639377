// Package resilience guards outbound HTTP calls with a circuit breaker and bounded
// exponential backoff.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Config controls retries and breaker thresholds.
type Config struct {
	MaxRetries       int
	InitialInterval  time.Duration
	MaxInterval      time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

var (
	ErrCircuitOpen = errors.New("circuit breaker open")
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
)

// StatusError reports a non-retryable upstream status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: status=%d body=%s", e.StatusCode, e.Body)
}

// Doer executes HTTP requests through one breaker.
type Doer struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	cfg     Config
}

// NewDoer builds a guarded executor named after its upstream.
func NewDoer(name string, client *http.Client, cfg Config) *Doer {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	threshold := cfg.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
	return &Doer{client: client, breaker: breaker, cfg: cfg}
}

// Do sends the request built by build, retrying on transport errors, 429 and 5xx.
// Other non-2xx statuses return a *StatusError immediately. The caller closes the body.
func (d *Doer) Do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		var final *StatusError
		result, err := d.breaker.Execute(func() (interface{}, error) {
			resp, execErr := d.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				drain(resp)
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				drain(resp)
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
				resp.Body.Close()
				final = &StatusError{StatusCode: resp.StatusCode, Body: string(payload)}
				return nil, nil
			}
			return resp, nil
		})
		if final != nil {
			return nil, final
		}
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, errors.New("unexpected result type from circuit breaker")
			}
			return resp, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if attempt >= d.cfg.MaxRetries {
			return nil, err
		}

		delay := d.cfg.InitialInterval << attempt
		if d.cfg.MaxInterval > 0 && delay > d.cfg.MaxInterval {
			delay = d.cfg.MaxInterval
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
}
