package flow

import (
	"fmt"

	"github.com/parsertg/parsertg/internal/catalog"
	"github.com/parsertg/parsertg/internal/stats"
	"github.com/parsertg/parsertg/internal/texts"
)

func navRow(l texts.Locale) []Button {
	return []Button{
		{Label: texts.T(l, "back"), Action: ActionBack},
		{Label: texts.T(l, "home"), Action: ActionHome},
	}
}

func homeRow(l texts.Locale) []Button {
	return []Button{{Label: texts.T(l, "home"), Action: ActionHome}}
}

func localePrompt() Prompt {
	return Prompt{
		Text: "🌐 Выберите язык / Select language",
		Keyboard: [][]Button{{
			{Label: "🇷🇺 Русский", Action: ActionLanguage, Payload: "ru"},
			{Label: "🇬🇧 English", Action: ActionLanguage, Payload: "en"},
		}},
	}
}

func homePrompt(l texts.Locale) Prompt {
	return Prompt{
		Text: texts.T(l, "welcome"),
		Keyboard: [][]Button{{
			{Label: texts.T(l, "chats"), Action: ActionDatasetType, Payload: string(catalog.DatasetChats)},
			{Label: texts.T(l, "channels"), Action: ActionDatasetType, Payload: string(catalog.DatasetChannels)},
		}},
	}
}

func categoryPrompt(l texts.Locale, entries map[string]catalog.Entry) Prompt {
	rows := make([][]Button, 0, len(entries)/2+2)
	row := make([]Button, 0, 2)
	for _, key := range catalog.Keys(entries) {
		row = append(row, Button{
			Label:   fmt.Sprintf("%s (%d)", texts.CategoryName(l, key), entries[key].Records),
			Action:  ActionCategory,
			Payload: key,
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = make([]Button, 0, 2)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navRow(l))

	text := fmt.Sprintf("%s\n\n%s: %d",
		texts.T(l, "select_category"),
		texts.T(l, "total"),
		catalog.TotalRecords(entries),
	)
	return Prompt{Text: text, Keyboard: rows}
}

func countPrompt(l texts.Locale, entry catalog.Entry) Prompt {
	text := fmt.Sprintf("%s\n\n%s: %d",
		texts.T(l, "select_count"),
		texts.T(l, "available"),
		entry.Records,
	)
	return Prompt{
		Text: text,
		Keyboard: [][]Button{
			{
				{Label: texts.T(l, "count_10"), Action: ActionCount, Payload: "10"},
				{Label: texts.T(l, "count_50"), Action: ActionCount, Payload: "50"},
			},
			{
				{Label: texts.T(l, "count_100"), Action: ActionCount, Payload: "100"},
				{Label: texts.T(l, "count_all"), Action: ActionCount, Payload: "all"},
			},
			{{Label: texts.T(l, "count_custom"), Action: ActionCount, Payload: "custom"}},
			navRow(l),
		},
	}
}

func manualCountPrompt(l texts.Locale) Prompt {
	return Prompt{
		Text:     texts.T(l, "enter_number"),
		Keyboard: [][]Button{navRow(l)},
	}
}

func invalidCountPrompt(l texts.Locale) Prompt {
	return Prompt{
		Text:     texts.T(l, "invalid_number"),
		Keyboard: [][]Button{navRow(l)},
	}
}

func formatPrompt(l texts.Locale) Prompt {
	return Prompt{
		Text: texts.T(l, "select_format"),
		Keyboard: [][]Button{
			{
				{Label: texts.T(l, "txt"), Action: ActionFormat, Payload: "txt"},
				{Label: texts.T(l, "csv"), Action: ActionFormat, Payload: "csv"},
			},
			navRow(l),
		},
	}
}

func loadingPrompt(l texts.Locale) Prompt {
	return Prompt{Text: texts.T(l, "loading")}
}

func successPrompt(l texts.Locale, records int) Prompt {
	return Prompt{
		Text:     fmt.Sprintf("%s\n%s: %d", texts.T(l, "success"), texts.T(l, "exported"), records),
		Keyboard: [][]Button{homeRow(l)},
	}
}

func errorPrompt(l texts.Locale, key string) Prompt {
	return Prompt{
		Text:     texts.T(l, key),
		Keyboard: [][]Button{homeRow(l)},
	}
}

func noDataPrompt(l texts.Locale) Prompt {
	return Prompt{
		Text:     texts.T(l, "no_file"),
		Keyboard: [][]Button{homeRow(l)},
	}
}

func statsPrompt(l texts.Locale, snap stats.Snapshot) Prompt {
	text := fmt.Sprintf("%s\n\n%s: %d\n%s: %d\n%s: %d",
		texts.T(l, "bot_stats"),
		texts.T(l, "total_users"), snap.TotalUsers,
		texts.T(l, "active_today"), snap.ActiveToday,
		texts.T(l, "total_downloads"), snap.TotalDownloads,
	)
	return Prompt{Text: text, Keyboard: [][]Button{homeRow(l)}}
}
