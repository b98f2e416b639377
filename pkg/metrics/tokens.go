package metrics

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter approximates how many model tokens a text consumes.
type TokenCounter interface {
	Count(text string) int
}

// HeuristicCounter needs no vocabulary: one token per non-ASCII rune and one per
// four ASCII bytes.
type HeuristicCounter struct{}

func (HeuristicCounter) Count(text string) int {
	ascii, wide := 0, 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			ascii++
			continue
		}
		wide++
	}
	return wide + (ascii+3)/4
}

// TiktokenCounter encodes with a tiktoken BPE. The encoding is loaded lazily on the first
// call; if it cannot be loaded the heuristic is used for the lifetime of the counter.
type TiktokenCounter struct {
	encoding string
	logger   *slog.Logger

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewTiktokenCounter builds a counter for the named encoding (cl100k_base when empty).
func NewTiktokenCounter(encoding string, logger *slog.Logger) *TiktokenCounter {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &TiktokenCounter{encoding: encoding, logger: logger.With("component", "metrics.tokens")}
}

func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err != nil {
			c.logger.Warn("tiktoken encoding unavailable, using heuristic", "encoding", c.encoding, "error", err)
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return HeuristicCounter{}.Count(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}
