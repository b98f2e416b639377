package chef

import "github.com/yanqian/smartchef/internal/domain/session"

// Label keys served to front-ends.
var labels = map[string]map[string]string{
	session.LangZH: {
		"title":        "🍽️ SmartChef 智能厨神助手",
		"city":         "📍 你所在的城市（可中文）",
		"ingredients":  "🍅 你今天有哪些食材呢？（逗号分隔）",
		"diet":         "🥗 有没有饮食偏好（可选）？",
		"goal":         "🎯 你今天的健康目标是？",
		"btn":          "👨‍🍳 生成饮食建议",
		"answer":       "✅ Chef助手回答：",
		"ask_subtitle": "💬 有其他饮食问题想问Chef助手吗？",
		"question":     "🥣 聊聊你的饮食小困惑～",
		"send":         "发送 / Send",
		"history":      "📜 历史问答记录",
		"video_title":  "🎥 Chef推荐的视频",
		"weather":      "🌦 当前天气与时令推荐",
		"speak":        "🔊 开始朗读",
		"stop":         "🛑 停止朗读",
		"rate":         "语速调节",
		"chat_error":   "❌ Chef助手暂时没能生成建议，请检查API密钥或网络",
	},
	session.LangEN: {
		"title":        "🍽️ SmartChef: AI Cooking Assistant",
		"city":         "📍 Your city (in Chinese or English)",
		"ingredients":  "🍅 What ingredients do you have? (comma-separated)",
		"diet":         "🥗 Any dietary preference (optional)?",
		"goal":         "🎯 What's your health goal today?",
		"btn":          "👨‍🍳 Generate Cooking Advice",
		"answer":       "✅ Chef Assistant's reply:",
		"ask_subtitle": "💬 Any cooking/nutrition question for Chef?",
		"question":     "🥣 Ask Chef something...",
		"send":         "发送 / Send",
		"history":      "📜 Conversation History",
		"video_title":  "🎥 Video Suggestions from Chef",
		"weather":      "🌦 Current Weather & Seasonal Picks",
		"speak":        "🔊 Read aloud",
		"stop":         "🛑 Stop reading",
		"rate":         "Speaking rate",
		"chat_error":   "❌ Chef couldn't generate advice right now. Please check the API key or network.",
	},
}

// Labels returns a copy of the label table for lang; ok is false for unknown languages.
func Labels(lang string) (map[string]string, bool) {
	table, ok := labels[lang]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, true
}
