// Package bot binds the conversation machine to the Telegram transport.
package bot

import (
	tg "github.com/parsertg/parsertg/core/telegram"
	"github.com/parsertg/parsertg/core/telegram/callbacks"
	"github.com/parsertg/parsertg/core/telegram/commands"
	tghelpers "github.com/parsertg/parsertg/core/telegram/helpers"
	"github.com/parsertg/parsertg/core/telegram/router"
	"github.com/parsertg/parsertg/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// Service exposes the export conversation as bot commands and callbacks.
type Service struct {
	machine *flow.Machine
}

// New builds the bot service around a conversation machine.
func New(machine *flow.Machine) *Service {
	return &Service{machine: machine}
}

// callbackActions lists every action reachable from inline keyboards.
var callbackActions = []flow.Action{
	flow.ActionLanguage,
	flow.ActionDatasetType,
	flow.ActionCategory,
	flow.ActionCount,
	flow.ActionFormat,
	flow.ActionBack,
	flow.ActionHome,
	flow.ActionStats,
}

// Register wires commands, callbacks and the free-text fallback into the registry.
func (s *Service) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     s.command(flow.ActionStart),
		Description: "Start the bot",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     s.command(flow.ActionStats),
		Description: "Bot usage statistics",
	})

	for _, action := range callbackActions {
		_ = reg.RegisterCallback(string(action), s.callback(action))
	}

	reg.SetTextFallback(s.text)
}

// Routes assembles the full route table for RunTelegram.
func (s *Service) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(reg, router.TextOptions{}))
	return routes
}

func (s *Service) command(action flow.Action) tele.HandlerFunc {
	return func(c tele.Context) error {
		return s.dispatch(c, action, "")
	}
}

func (s *Service) callback(action flow.Action) tele.HandlerFunc {
	return func(c tele.Context) error {
		return s.dispatch(c, action, callbacks.CallbackPayload(c))
	}
}

func (s *Service) text(c tele.Context) error {
	return s.dispatch(c, flow.ActionText, c.Text())
}

func (s *Service) dispatch(c tele.Context, action flow.Action, payload string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	ev := flow.Event{
		UserID:  sender.ID,
		Action:  action,
		Payload: payload,
	}
	return s.machine.Handle(ctx, ev, newOutbox(c))
}
