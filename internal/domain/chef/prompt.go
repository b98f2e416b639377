package chef

import (
	"fmt"
	"strings"

	"github.com/yanqian/smartchef/internal/domain/keywords"
	"github.com/yanqian/smartchef/internal/domain/session"
)

// BuildAdvicePrompt renders the advice instruction. User text is embedded verbatim and
// weather may be nil when the lookup failed.
func BuildAdvicePrompt(req UserRequest, w *WeatherContext) string {
	if req.Language == session.LangEN {
		return buildAdvicePromptEN(req, w)
	}
	return buildAdvicePromptZH(req, w)
}

func buildAdvicePromptZH(req UserRequest, w *WeatherContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "我所在的城市：%s\n", req.City)
	fmt.Fprintf(&b, "我今天的食材是：%s\n", req.Ingredients)
	fmt.Fprintf(&b, "饮食偏好：%s\n", req.DietaryPreference)
	fmt.Fprintf(&b, "健康目标：%s\n", req.HealthGoal)
	if w != nil {
		fmt.Fprintf(&b, "当前天气：%s\n", w.Summary)
		if w.Tip != "" {
			fmt.Fprintf(&b, "时令提示：%s\n", w.Tip)
		}
	}
	b.WriteString(`
请你作为营养顾问“Chef助手”，语气轻松温暖、俏皮有趣但专业，结合以上内容，帮我生成：
1️⃣ 推荐食谱（Recipe Suggestion）
请根据食材、饮食偏好和健康目标，推荐 1~2 个适合的菜品，并附上详细且有食欲的描述（如风味、口感、适合人群等）。
2️⃣ 制作步骤（Steps）
用简洁的分步说明告诉我怎么做，标明火候和大致用时。
3️⃣ 时令建议（Seasonal Suggestion）
结合当前天气，说说这道菜为什么适合今天，或者可以怎样调整更应季。
4️⃣ 营养价值解析（Nutritional Insight）
对推荐菜品的营养组成进行简要解释，比如蛋白质、碳水、脂肪、纤维、维生素等含量及其健康益处，突出与健康目标（如减脂/增肌）之间的关系。
5️⃣ 个性化搭配建议（Smart Pairing Tips）
在已有食材基础上，推荐额外可以搭配的小食材或调味品，让菜品更均衡或更美味。
6️⃣ 饮食误区与实用提醒（Common Pitfalls & Tips）
温馨提醒用户可能会忽略的饮食误区，例如“别忘了控制酱料用量”、“晚餐别太晚吃”。
7️⃣ 关怀鼓励话语（Encouragement & Support）
用轻松愉快又带点人情味的语言，对用户进行积极反馈与心理支持。
`)
	return b.String()
}

func buildAdvicePromptEN(req UserRequest, w *WeatherContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "My city: %s\n", req.City)
	fmt.Fprintf(&b, "Ingredients I have today: %s\n", req.Ingredients)
	fmt.Fprintf(&b, "Dietary preference: %s\n", req.DietaryPreference)
	fmt.Fprintf(&b, "Health goal: %s\n", req.HealthGoal)
	if w != nil {
		fmt.Fprintf(&b, "Current weather: %s\n", w.Summary)
		if w.Tip != "" {
			fmt.Fprintf(&b, "Seasonal hint: %s\n", w.Tip)
		}
	}
	b.WriteString(`
You are "Chef", a warm, playful but professional nutrition coach. Using everything above, write these sections in order:
1. ` + keywords.RecipeLabel + `
Write this label exactly as shown on its own line. Below it, name 1-2 dishes in Title Case on the first line, then describe flavor, texture and who they suit. End the section with a blank line.
2. **Steps**
Short numbered cooking steps with heat levels and rough timings.
3. **Seasonal Suggestion**
Why the dish fits today's weather, or how to adjust it for the season.
4. **Nutritional Insight**
Protein, carbs, fat, fiber and vitamins, tied to the health goal.
5. **Smart Pairing Tips**
Extra ingredients or seasonings that make the meal more balanced or tastier.
6. **Common Pitfalls & Tips**
Easy-to-miss mistakes, such as heavy sauces or eating dinner too late.
7. **Encouragement & Support**
A friendly, upbeat closing note.
`)
	return b.String()
}

// BuildFollowUpPrompt renders up to the last maxTurns turns (three when maxTurns is not
// positive) followed by the new question and an open answer cue.
func BuildFollowUpPrompt(history []session.Turn, question, lang string, maxTurns int) string {
	userTag, chefTag := "你：", "Chef助手："
	if lang == session.LangEN {
		userTag, chefTag = "You: ", "Chef: "
	}
	if maxTurns <= 0 {
		maxTurns = defaultContextTurns
	}
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}
	lines := make([]string, 0, len(history)+1)
	for _, turn := range history {
		lines = append(lines, userTag+turn.Question+"\n"+chefTag+turn.Answer)
	}
	lines = append(lines, userTag+question+"\n"+chefTag)
	return strings.Join(lines, "\n")
}
