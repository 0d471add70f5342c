package lang

// UIText holds the static user-facing strings for one locale.
type UIText struct {
	Hello       string
	PromptDream string
	Processing  string
	NoAPI       string
	Done        string
	ImagePaid   string
	ImageOK     string
	ImageUsage  string
	AskUsage    string
	AskNoAnswer string
	StatsTitle  string
}

var uiTexts = map[Language]UIText{
	Ukrainian: {
		Hello:       "Вітаю! Надішли текст сну, і я надам структурований аналіз. Команда /dream — також приймає сон.",
		PromptDream: "Будь ласка, надішли текст сну одним повідомленням.",
		Processing:  "Опрацьовую сон…",
		NoAPI:       "Аналіз доступний після налаштування GOOGLE_API_KEY.",
		Done:        "Готово.",
		ImagePaid:   "Генерація зображень — платна функція. У вас наразі безкоштовний тариф.",
		ImageOK:     "Готую візуалізацію (демо-опис):",
		ImageUsage:  "Використай: /image короткий опис сну",
		AskUsage:    "Використай: /ask ваше запитання",
		AskNoAnswer: "Наразі не вдалося відповісти. Спробуй переформулювати запитання.",
		StatsTitle:  "Статистика ваших снів",
	},
	Russian: {
		Hello:       "Привет! Пришли текст сна — верну структурированный анализ. Команда /dream — тоже принимает сон.",
		PromptDream: "Пожалуйста, отправь текст сна одним сообщением.",
		Processing:  "Обрабатываю сон…",
		NoAPI:       "Анализ доступен после настройки GOOGLE_API_KEY.",
		Done:        "Готово.",
		ImagePaid:   "Генерация изображений — платная функция. У вас сейчас бесплатный тариф.",
		ImageOK:     "Готовлю визуализацию (демо-описание):",
		ImageUsage:  "Используй: /image краткое описание сна",
		AskUsage:    "Используй: /ask ваш вопрос",
		AskNoAnswer: "Пока не получилось ответить. Попробуй переформулировать вопрос.",
		StatsTitle:  "Статистика ваших снов",
	},
	English: {
		Hello:       "Hi! Send your dream text to get a structured interpretation. You can also use /dream.",
		PromptDream: "Please send your dream text in a single message.",
		Processing:  "Processing your dream…",
		NoAPI:       "Analysis requires GOOGLE_API_KEY to be set.",
		Done:        "Done.",
		ImagePaid:   "Image generation is a paid feature. You are currently on the free tier.",
		ImageOK:     "Preparing visualization (demo description):",
		ImageUsage:  "Use: /image short dream description",
		AskUsage:    "Use: /ask your question",
		AskNoAnswer: "Could not answer right now. Try rephrasing the question.",
		StatsTitle:  "Your dream stats",
	},
}

// UI returns the string table for a locale, falling back to English.
func UI(l Language) UIText {
	if t, ok := uiTexts[l]; ok {
		return t
	}
	return uiTexts[English]
}
