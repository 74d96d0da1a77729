package telegram

import (
	"testing"

	"github.com/parsertg/parsertg/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(c tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})
	reg.RegisterCommand("start", commands.Command{Handler: noopHandler, Description: "no slash"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noopHandler})
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "duplicate"})

	if len(reg.Commands()) != 1 {
		t.Fatalf("commands = %d, want 1", len(reg.Commands()))
	}
	if _, _, ok := reg.LookupCommand("/start"); !ok {
		t.Fatal("lookup /start failed")
	}
	if _, _, ok := reg.LookupCommand("start"); !ok {
		t.Fatal("lookup without slash failed")
	}
}

func TestLookupCommandAlias(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     noopHandler,
		Description: "stats",
		Aliases:     []string{"statistics"},
	})

	key, _, ok := reg.LookupCommand("statistics")
	if !ok || key != "/stats" {
		t.Fatalf("alias lookup = %q, %v", key, ok)
	}
}

func TestRegisterCallback(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("cat", noopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("cat", noopHandler); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if err := reg.RegisterCallback("", noopHandler); err == nil {
		t.Fatal("empty key accepted")
	}
	if _, ok := reg.GetCallback("cat"); !ok {
		t.Fatal("callback not found")
	}
	if keys := reg.ListCallbacks(); len(keys) != 1 || keys[0] != "cat" {
		t.Fatalf("callbacks = %v", keys)
	}
}

func TestListCommandsHidesHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})
	reg.RegisterCommand("/debug", commands.Command{Handler: noopHandler, Description: "debug", Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("visible = %v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 2 {
		t.Fatalf("all = %v", all)
	}
}
