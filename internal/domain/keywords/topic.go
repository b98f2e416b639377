package keywords

import "strings"

// TopicFallback is returned when no vocabulary term occurs in the text.
const TopicFallback = "健康饮食"

// topicVocabulary is scanned in this order within each line.
var topicVocabulary = []string{
	"营养", "饮食", "食谱", "蔬菜", "低脂", "健康", "高蛋白",
	"低碳水", "减脂", "三高", "糖尿病", "早餐", "午餐", "晚餐",
}

// TopicStrategy matches a fixed nutrition vocabulary; it suits Chinese advice text.
type TopicStrategy struct{}

func (TopicStrategy) Name() string { return StrategyTopic }

func (TopicStrategy) Extract(text string) []string {
	return ExtractTopics(text)
}

// ExtractTopics returns up to three vocabulary terms in the order they are first found,
// line by line, or the fallback term.
func ExtractTopics(text string) []string {
	c := newCollector()
	for _, line := range strings.Split(text, "\n") {
		for _, term := range topicVocabulary {
			if strings.Contains(line, term) {
				c.add(term)
			}
		}
		if c.full() {
			break
		}
	}
	return c.result(TopicFallback)
}
