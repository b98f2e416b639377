package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/smartchef/internal/infra/config"
)

// Advice forms and questions are short free text.
const replayBodyLimit = 64 << 10

var errBodyTooLarge = errors.New("request body exceeds replay limit")

// withRetry replays POST requests whose handler answered with a transient server error.
// Upstream chat failures (502) are final: the chat and weather clients already retried,
// and a replay would bill another completion.
func withRetry(next http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return next
	}
	return &replayHandler{next: next, cfg: cfg, logger: logger}
}

type replayHandler struct {
	next   http.Handler
	cfg    config.RetryConfig
	logger *slog.Logger
}

func (h *replayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || excluded(r.URL.Path, h.cfg.Exclude) {
		h.next.ServeHTTP(w, r)
		return
	}
	body, err := bufferBody(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}

	for attempt := 1; ; attempt++ {
		resp := newBufferedResponse()
		h.next.ServeHTTP(resp, replayRequest(r, body))
		if attempt >= h.cfg.MaxAttempts || !transientStatus(resp.status) {
			resp.writeTo(w)
			return
		}

		h.logger.Warn("transient failure, replaying request", "path", r.URL.Path, "status", resp.status, "attempt", attempt)
		if err := pause(r.Context(), h.backoff(attempt)); err != nil {
			resp.writeTo(w)
			return
		}
	}
}

// backoff doubles BaseBackoff after every failed attempt.
func (h *replayHandler) backoff(attempt int) time.Duration {
	return h.cfg.BaseBackoff * time.Duration(1<<(attempt-1))
}

// transientStatus reports whether a replay may succeed. 502 carries llm_error and 501 is
// permanent.
func transientStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusNotImplemented:
		return false
	}
	return status >= http.StatusInternalServerError
}

// excluded reports whether path ends with one of the suffixes. Session routes carry ids,
// so exact matching cannot express them.
func excluded(path string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, replayBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > replayBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func replayRequest(r *http.Request, body []byte) *http.Request {
	clone := r.Clone(r.Context())
	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.ContentLength = int64(len(body))
	return clone
}

// bufferedResponse holds one attempt's response until it is known to be final.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// Flush is a no-op; gin may flush through the writer it wraps.
func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) writeTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, values := range b.header {
		dst[k] = append([]string(nil), values...)
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
