package keywords

import (
	"regexp"
	"strings"
)

// DishFallback is returned when no dish phrase is found.
const DishFallback = "Healthy Recipe"

// RecipeLabel marks the section the English advice prompt asks the model to emit first.
const RecipeLabel = "**Recipe Suggestion**"

var (
	recipeSection = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(RecipeLabel) + `[:：]?\s*(.*?)(?:\n[ \t]*\n|$)`)
	dishPhrase    = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+){0,4}\b`)
)

var dishStopwords = map[string]struct{}{
	"try": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"here": {}, "there": {}, "it": {},
}

// DishStrategy mines Title-Case dish names; it suits English advice text.
type DishStrategy struct{}

func (DishStrategy) Name() string { return StrategyDish }

func (DishStrategy) Extract(text string) []string {
	return ExtractDishPhrases(IsolateRecipeSection(text))
}

// IsolateRecipeSection returns the text between the recipe label and the next blank line.
// Without a label the input is returned unchanged; without a blank line the section runs
// to the end of the text.
func IsolateRecipeSection(text string) string {
	m := recipeSection.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	return strings.TrimSpace(m[1])
}

// ExtractDishPhrases returns up to three distinct runs of one to five capitalized words,
// skipping bare stopwords, or the fallback phrase.
func ExtractDishPhrases(section string) []string {
	c := newCollector()
	for _, line := range strings.Split(section, "\n") {
		for _, phrase := range dishPhrase.FindAllString(line, -1) {
			if _, stop := dishStopwords[strings.ToLower(phrase)]; stop {
				continue
			}
			c.add(phrase)
		}
		if c.full() {
			break
		}
	}
	return c.result(DishFallback)
}
