// Package texts holds the static per-locale string tables for the bot UI.
package texts

import "strings"

// Locale selects one of the two supported UI languages.
type Locale string

const (
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
)

// ParseLocale maps a raw token to a supported locale, defaulting to Russian.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(LocaleEN)) {
		return LocaleEN
	}
	return LocaleRU
}

var tables = map[Locale]map[string]string{
	LocaleRU: {
		"welcome":         "🌟 Добро пожаловать в ParserTG!\n\nВыберите тип данных:",
		"chats":           "💬 Чаты",
		"channels":        "📢 Каналы",
		"select_category": "📁 Выберите категорию:",
		"select_count":    "🔢 Сколько записей выгрузить?\n\n💡 Введите число или выберите:",
		"select_format":   "📋 Выберите формат:",
		"txt":             "📄 TXT",
		"csv":             "📊 CSV",
		"back":            "⬅️ Назад",
		"home":            "🏠 Главное меню",
		"language":        "🌐 Выберите язык",
		"loading":         "⏳ Загрузка...",
		"success":         "✅ Файл готов к скачиванию!",
		"error":           "❌ Ошибка",
		"no_file":         "❌ Файл не найден",
		"invalid_number":  "❌ Неверное число! Введите число от 1 до 10000",
		"enter_number":    "✏️ Введите число от 1 до 10000:",
		"count_10":        "10 записей",
		"count_50":        "50 записей",
		"count_100":       "100 записей",
		"count_all":       "Все записи",
		"count_custom":    "✍️ Ввести своё число",
		"total":           "📊 Всего",
		"available":       "💾 Доступно",
		"exported":        "📊 Выгружено",
		"txt_record":      "Запись",
		"txt_total":       "Всего записей",
		"bot_stats":       "🤖 Статистика бота ParserTG",
		"total_users":     "👥 Всего пользователей",
		"active_today":    "🟢 Активных сегодня",
		"total_downloads": "📥 Всего скачиваний",
	},
	LocaleEN: {
		"welcome":         "🌟 Welcome to ParserTG!\n\nSelect data type:",
		"chats":           "💬 Chats",
		"channels":        "📢 Channels",
		"select_category": "📁 Select category:",
		"select_count":    "🔢 How many records to export?\n\n💡 Enter number or select:",
		"select_format":   "📋 Select format:",
		"txt":             "📄 TXT",
		"csv":             "📊 CSV",
		"back":            "⬅️ Back",
		"home":            "🏠 Home",
		"language":        "🌐 Select language",
		"loading":         "⏳ Loading...",
		"success":         "✅ File ready for download!",
		"error":           "❌ Error",
		"no_file":         "❌ File not found",
		"invalid_number":  "❌ Invalid number! Enter number from 1 to 10000",
		"enter_number":    "✏️ Enter number from 1 to 10000:",
		"count_10":        "10 records",
		"count_50":        "50 records",
		"count_100":       "100 records",
		"count_all":       "All records",
		"count_custom":    "✍️ Custom number",
		"total":           "📊 Total",
		"available":       "💾 Available",
		"exported":        "📊 Exported",
		"txt_record":      "Record",
		"txt_total":       "Total records",
		"bot_stats":       "🤖 ParserTG Bot Statistics",
		"total_users":     "👥 Total users",
		"active_today":    "🟢 Active today",
		"total_downloads": "📥 Total downloads",
	},
}

// T returns the UI string for key in the given locale.
// Unknown locales fall back to Russian; unknown keys yield an empty string.
func T(l Locale, key string) string {
	table, ok := tables[l]
	if !ok {
		table = tables[LocaleRU]
	}
	return table[key]
}

var categoryNames = map[Locale]map[string]string{
	LocaleRU: {
		"blogs":       "Блоги",
		"news":        "Новости и СМИ",
		"humor":       "Юмор и развлечения",
		"technology":  "Технологии",
		"economy":     "Экономика",
		"business":    "Бизнес и стартапы",
		"crypto":      "Криптовалюты",
		"travel":      "Путешествия",
		"marketing":   "Маркетинг, PR, реклама",
		"psychology":  "Психология",
		"design":      "Дизайн",
		"politics":    "Политика",
		"art":         "Искусство",
		"law":         "Право",
		"education":   "Образование",
		"books":       "Книги",
		"linguistics": "Лингвистика",
		"career":      "Карьера",
		"knowledge":   "Познавательное",
		"courses":     "Курсы и гайды",
		"sports":      "Спорт",
		"sport":       "Спорт",
		"fashion":     "Мода и красота",
		"medicine":    "Медицина",
		"health":      "Здоровье и Фитнес",
		"fitness":     "Здоровье и Фитнес",
		"photos":      "Картинки и фото",
		"software":    "Софт и приложения",
		"video":       "Видео и фильмы",
		"music":       "Музыка",
		"games":       "Игры",
		"food":        "Еда и кулинария",
		"quotes":      "Цитаты",
		"handmade":    "Рукоделие",
		"crafts":      "Рукоделие",
		"family":      "Семья и дети",
		"nature":      "Природа",
		"interior":    "Интерьер и строительство",
		"telegram":    "Telegram",
		"instagram":   "Инстаграм",
		"sales":       "Продажи",
		"transport":   "Транспорт",
		"religion":    "Религия",
		"esoteric":    "Эзотерика",
		"darknet":     "Даркнет",
		"betting":     "Букмекерство",
		"shock":       "Шок-контент",
		"erotic":      "Эротика",
		"adult":       "Для взрослых",
		"other":       "Другое",
	},
	LocaleEN: {
		"blogs":       "Blogs",
		"news":        "News & Media",
		"humor":       "Humor & Entertainment",
		"technology":  "Technology",
		"economy":     "Economy",
		"business":    "Business & Startups",
		"crypto":      "Cryptocurrencies",
		"travel":      "Travel",
		"marketing":   "Marketing, PR, Ads",
		"psychology":  "Psychology",
		"design":      "Design",
		"politics":    "Politics",
		"art":         "Art",
		"law":         "Law",
		"education":   "Education",
		"books":       "Books",
		"linguistics": "Linguistics",
		"career":      "Career",
		"knowledge":   "Facts & Knowledge",
		"courses":     "Courses & Guides",
		"sports":      "Sports",
		"sport":       "Sports",
		"fashion":     "Fashion & Beauty",
		"medicine":    "Medicine",
		"health":      "Health & Fitness",
		"fitness":     "Health & Fitness",
		"photos":      "Pictures & Photos",
		"software":    "Software & Apps",
		"video":       "Video & Movies",
		"music":       "Music",
		"games":       "Games",
		"food":        "Food & Cooking",
		"quotes":      "Quotes",
		"handmade":    "Handmade",
		"crafts":      "Handmade",
		"family":      "Family & Kids",
		"nature":      "Nature",
		"interior":    "Interior & Construction",
		"telegram":    "Telegram",
		"instagram":   "Instagram",
		"sales":       "Sales",
		"transport":   "Transport",
		"religion":    "Religion",
		"esoteric":    "Esoterics",
		"darknet":     "Darknet",
		"betting":     "Betting",
		"shock":       "Shock Content",
		"erotic":      "Erotic",
		"adult":       "Adult",
		"other":       "Other",
	},
}

// CategoryName resolves a display label for a category key.
// Unknown keys fall back to a title-cased rendering of the key; this never fails.
func CategoryName(l Locale, key string) string {
	table, ok := categoryNames[l]
	if !ok {
		table = categoryNames[LocaleRU]
	}
	if name, ok := table[key]; ok {
		return name
	}
	return titleCase(key)
}

func titleCase(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
