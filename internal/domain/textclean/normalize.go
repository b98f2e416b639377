// Package textclean strips presentation noise from model output before it is shown,
// spoken or mined for keywords.
package textclean

import (
	"regexp"
	"strings"
)

var (
	ruleLine      = regexp.MustCompile(`[-=]{3,}`)
	strikeTilde   = regexp.MustCompile(`~{2,}.*?~~`)
	strikeTag     = regexp.MustCompile(`(?s)<s>.*?</s>`)
	deleteTag     = regexp.MustCompile(`(?s)<del>.*?</del>`)
	parenthetical = regexp.MustCompile(`[（(][^）)]+[）)]`)
	connectors    = regexp.MustCompile(`[—–－_‾﹣]+`)
)

// boilerplate lists reply prefixes some prompts make the model echo back.
var boilerplate = []string{"✅ 小宝回答：", "✅ Chef助手回答："}

// Normalize removes rule lines, strikethrough spans, parenthetical asides, connector
// dashes and reply prefixes, then trims the result. It never fails; unmatched
// delimiters are left alone.
func Normalize(text string) string {
	out := ruleLine.ReplaceAllString(text, "")
	out = strikeTilde.ReplaceAllString(out, "")
	out = strikeTag.ReplaceAllString(out, "")
	out = deleteTag.ReplaceAllString(out, "")
	out = parenthetical.ReplaceAllString(out, "")
	out = connectors.ReplaceAllString(out, "")
	for _, prefix := range boilerplate {
		out = strings.ReplaceAll(out, prefix, "")
	}
	return strings.TrimSpace(out)
}
