package bot

import (
	"testing"

	"github.com/parsertg/parsertg/internal/flow"
)

func TestBuildMarkupEmpty(t *testing.T) {
	if got := buildMarkup(nil); got != nil {
		t.Errorf("markup = %v, want nil", got)
	}
}

func TestBuildMarkupRowsAndEncoding(t *testing.T) {
	markup := buildMarkup([][]flow.Button{
		{
			{Label: "💬 Chats", Action: flow.ActionDatasetType, Payload: "chats"},
			{Label: "📢 Channels", Action: flow.ActionDatasetType, Payload: "channels"},
		},
		{
			{Label: "🏠 Home", Action: flow.ActionHome},
		},
	})
	if markup == nil {
		t.Fatal("markup is nil")
	}
	kb := markup.InlineKeyboard
	if len(kb) != 2 || len(kb[0]) != 2 || len(kb[1]) != 1 {
		t.Fatalf("keyboard shape = %v", kb)
	}
	if kb[0][0].Text != "💬 Chats" {
		t.Errorf("text = %q", kb[0][0].Text)
	}
	if kb[0][1].Unique != string(flow.ActionDatasetType) || kb[0][1].Data != "channels" {
		t.Errorf("button = %+v", kb[0][1])
	}
	if kb[1][0].Unique != string(flow.ActionHome) || kb[1][0].Data != "" {
		t.Errorf("home button = %+v", kb[1][0])
	}
}
