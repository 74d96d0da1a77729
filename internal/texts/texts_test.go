package texts

import "testing"

func TestParseLocale(t *testing.T) {
	cases := []struct {
		in   string
		want Locale
	}{
		{"en", LocaleEN},
		{"EN", LocaleEN},
		{"ru", LocaleRU},
		{"", LocaleRU},
		{"de", LocaleRU},
	}
	for _, tc := range cases {
		if got := ParseLocale(tc.in); got != tc.want {
			t.Errorf("ParseLocale(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLocaleTablesCoverSameKeys(t *testing.T) {
	ru := tables[LocaleRU]
	en := tables[LocaleEN]
	for key := range ru {
		if _, ok := en[key]; !ok {
			t.Errorf("key %q missing from en table", key)
		}
	}
	for key := range en {
		if _, ok := ru[key]; !ok {
			t.Errorf("key %q missing from ru table", key)
		}
	}
}

func TestTFallsBackToRussian(t *testing.T) {
	if got := T(Locale("de"), "welcome"); got != T(LocaleRU, "welcome") {
		t.Errorf("unknown locale = %q", got)
	}
	if got := T(LocaleEN, "definitely_missing"); got != "" {
		t.Errorf("unknown key = %q", got)
	}
}

func TestCategoryNameFallback(t *testing.T) {
	if got := CategoryName(LocaleRU, "news"); got != "Новости и СМИ" {
		t.Errorf("news ru = %q", got)
	}
	if got := CategoryName(LocaleEN, "news"); got != "News & Media" {
		t.Errorf("news en = %q", got)
	}
	cases := []struct {
		key  string
		want string
	}{
		{"space_tourism", "Space Tourism"},
		{"ai", "Ai"},
		{"multi-word-key", "Multi Word Key"},
	}
	for _, tc := range cases {
		if got := CategoryName(LocaleEN, tc.key); got != tc.want {
			t.Errorf("CategoryName(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}
