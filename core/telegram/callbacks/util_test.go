package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data        string
		wantKey     string
		wantPayload string
	}{
		{"\\fcat|news", "cat", "news"},
		{"\\fhome", "home", ""},
		{"cnt|all", "cnt", "all"},
		{"\\fcat|with|pipes", "cat", "with|pipes"},
		{"", "", ""},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if key != tc.wantKey || payload != tc.wantPayload {
			t.Errorf("ParseCallbackData(%q) = %q, %q; want %q, %q",
				tc.data, key, payload, tc.wantKey, tc.wantPayload)
		}
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	key, payload := ParseCallbackData(nil)
	if key != "" || payload != "" {
		t.Fatalf("nil callback = %q, %q", key, payload)
	}
}
