// Package keywords derives short search queries from generated cooking advice.
package keywords

import "strings"

// Strategy names accepted by Resolve.
const (
	StrategyTopic = "topic"
	StrategyDish  = "dish"
)

const maxTerms = 3

// Strategy extracts up to three search terms from text. Implementations are pure and
// always return at least one term.
type Strategy interface {
	Name() string
	Extract(text string) []string
}

// Resolve returns the strategy registered under name; unknown names get the topic strategy.
func Resolve(name string) Strategy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyDish:
		return DishStrategy{}
	default:
		return TopicStrategy{}
	}
}

// Query joins the extracted terms with a single space.
func Query(s Strategy, text string) string {
	return strings.Join(s.Extract(text), " ")
}

// collector keeps distinct terms in discovery order up to maxTerms.
type collector struct {
	terms []string
	seen  map[string]struct{}
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

func (c *collector) add(term string) {
	if c.full() {
		return
	}
	if _, ok := c.seen[term]; ok {
		return
	}
	c.seen[term] = struct{}{}
	c.terms = append(c.terms, term)
}

func (c *collector) full() bool {
	return len(c.terms) >= maxTerms
}

func (c *collector) result(fallback string) []string {
	if len(c.terms) == 0 {
		return []string{fallback}
	}
	return c.terms
}
