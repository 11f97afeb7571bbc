// Package i18n holds the user-facing strings in each supported language.
package i18n

// Locale is a supported UI language.
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

// DefaultLocale is used when nothing valid is configured.
const DefaultLocale = Chinese

var messages = map[Locale]map[string]string{
	English: {
		"navTitle":       "Questions",
		"navEmpty":       "No questions found yet.",
		"noMessages":     "No messages detected. Please ensure the conversation is loaded.",
		"noAnswers":      "No answered questions found. Please ensure at least one prompt has a response.",
		"exported":       "Exported to",
		"summaryDone":    "Summary saved to",
		"selectPrompt":   "Select questions (e.g. 1,3-5 or all):",
		"selectionEmpty": "Selection is empty.",
		"pairsTitle":     "Answered questions",
		"providersTitle": "Providers",
		"active":         "active",
		"unavailable":    "not configured",
	},
	Chinese: {
		"navTitle":       "问题导航",
		"navEmpty":       "暂未找到问题。",
		"noMessages":     "未检测到消息，请确认对话已加载。",
		"noAnswers":      "未找到已回答的问题，请确认至少有一个提问得到了回复。",
		"exported":       "已导出到",
		"summaryDone":    "总结已保存到",
		"selectPrompt":   "选择问题（例如 1,3-5 或 all）：",
		"selectionEmpty": "未选择任何问题。",
		"pairsTitle":     "已回答的问题",
		"providersTitle": "服务提供方",
		"active":         "当前",
		"unavailable":    "未配置",
	},
}

// Resolve maps a stored value onto a supported locale.
func Resolve(value string) Locale {
	switch Locale(value) {
	case English, Chinese:
		return Locale(value)
	}
	return DefaultLocale
}

// T returns the message for key, or the key itself when it is unknown.
func T(locale Locale, key string) string {
	if m, ok := messages[Resolve(string(locale))][key]; ok {
		return m
	}
	return key
}
