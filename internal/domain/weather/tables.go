package weather

import "strings"

// cityNames maps Chinese city names to the spelling the weather provider resolves.
var cityNames = map[string]string{
	"北京":  "Beijing",
	"上海":  "Shanghai",
	"广州":  "Guangzhou",
	"深圳":  "Shenzhen",
	"南京":  "Nanjing",
	"秦皇岛": "Qinhuangdao",
	"杭州":  "Hangzhou",
	"重庆":  "Chongqing",
	"天津":  "Tianjin",
	"武汉":  "Wuhan",
	"成都":  "Chengdu",
	"长沙":  "Changsha",
}

// ResolveCity maps a known Chinese city name to its provider spelling; other names
// pass through trimmed.
func ResolveCity(name string) string {
	trimmed := strings.TrimSpace(name)
	if mapped, ok := cityNames[trimmed]; ok {
		return mapped
	}
	return trimmed
}

var seasonalDishes = map[string]map[Category][]string{
	"zh": {
		CategoryCold: {"羊肉炖萝卜", "红枣枸杞汤", "生姜鸡汤", "牛肉粥"},
		CategoryHot:  {"绿豆汤", "凉拌黄瓜", "番茄鸡蛋冷面", "西瓜沙拉"},
		CategoryRain: {"山药排骨汤", "茯苓薏米粥", "陈皮鸭", "冬瓜汤"},
		CategoryMild: {"清炒时蔬", "蒸南瓜", "香菇滑鸡", "玉米排骨汤"},
	},
	"en": {
		CategoryCold: {"Lamb and Radish Stew", "Red Date and Goji Soup", "Ginger Chicken Soup", "Beef Congee"},
		CategoryHot:  {"Mung Bean Soup", "Smashed Cucumber Salad", "Cold Tomato Egg Noodles", "Watermelon Salad"},
		CategoryRain: {"Yam and Pork Rib Soup", "Poria and Barley Congee", "Tangerine Peel Duck", "Winter Melon Soup"},
		CategoryMild: {"Stir-fried Greens", "Steamed Pumpkin", "Mushroom Chicken", "Corn and Pork Rib Soup"},
	},
}

var seasonalTips = map[string]map[Category]string{
	"zh": {
		CategoryCold: "天气寒冷，多来点温补的汤品和炖菜，暖身又暖胃。",
		CategoryHot:  "天气炎热，饮食宜清淡，多补水，适当吃些消暑的凉菜。",
		CategoryRain: "阴雨潮湿，可以选择健脾祛湿的食材，少吃生冷。",
		CategoryMild: "天气宜人，均衡搭配时令蔬菜和优质蛋白就很好。",
	},
	"en": {
		CategoryCold: "It's cold out, so warming soups and stews are a great fit.",
		CategoryHot:  "It's hot today: keep meals light, stay hydrated and enjoy cooling dishes.",
		CategoryRain: "Damp, rainy weather calls for gentle, warm dishes and fewer raw foods.",
		CategoryMild: "Pleasant weather: balance seasonal vegetables with good protein.",
	},
}

var unavailableSummary = map[string]string{
	"zh": "❌ 天气获取失败",
	"en": "❌ Failed to fetch weather",
}

// SeasonalDishes lists dishes suited to the category in the given language.
func SeasonalDishes(c Category, lang string) []string {
	dishes := seasonalDishes[normalizeLang(lang)][c]
	out := make([]string, len(dishes))
	copy(out, dishes)
	return out
}

// Tip returns the localized advice line for a category.
func Tip(c Category, lang string) string {
	return seasonalTips[normalizeLang(lang)][c]
}

// UnavailableSummary is shown in place of the reading when the lookup fails.
func UnavailableSummary(lang string) string {
	return unavailableSummary[normalizeLang(lang)]
}

func normalizeLang(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), "en") {
		return "en"
	}
	return "zh"
}
