package metrics

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int  `json:"promptTokens"`
	CompletionTokens int  `json:"completionTokens,omitempty"`
	TotalTokens      int  `json:"totalTokens"`
	Estimated        bool `json:"estimated,omitempty"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// EstimateUsage counts prompt and completion locally when the provider omitted usage.
func EstimateUsage(counter TokenCounter, prompt, completion string) TokenUsage {
	if counter == nil {
		counter = HeuristicCounter{}
	}
	p := counter.Count(prompt)
	c := counter.Count(completion)
	return TokenUsage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c, Estimated: true}
}
