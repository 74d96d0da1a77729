// Package flow implements the export conversation: language, dataset type,
// category, record count and output format, ending in an async export.
package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/parsertg/parsertg/core/logger"
	"github.com/parsertg/parsertg/internal/catalog"
	"github.com/parsertg/parsertg/internal/export"
	"github.com/parsertg/parsertg/internal/session"
	"github.com/parsertg/parsertg/internal/stats"
	"github.com/parsertg/parsertg/internal/texts"

	"log/slog"
)

// Action identifies what the incoming update asks for.
type Action string

const (
	ActionStart       Action = "start"
	ActionLanguage    Action = "lang"
	ActionDatasetType Action = "dtype"
	ActionCategory    Action = "cat"
	ActionCount       Action = "cnt"
	ActionFormat      Action = "fmt"
	ActionBack        Action = "back"
	ActionHome        Action = "home"
	ActionStats       Action = "stats"
	ActionText        Action = "text"
)

// Event is one normalized incoming update.
type Event struct {
	UserID  int64
	Action  Action
	Payload string
}

// Button is an inline keyboard button in transport-neutral form.
type Button struct {
	Label   string
	Action  Action
	Payload string
}

// Prompt is an outgoing message with an optional inline keyboard.
type Prompt struct {
	Text     string
	Keyboard [][]Button
}

// File is a rendered export artifact ready for delivery.
type File struct {
	Name    string
	Caption string
	Content []byte
}

// Outbox delivers prompts and files back to the user. Implementations must
// be safe to call from export workers after the triggering update returned.
type Outbox interface {
	Prompt(ctx context.Context, p Prompt) error
	SendFile(ctx context.Context, f File) error
}

// Options wires the machine's collaborators.
type Options struct {
	Sessions *session.Store
	Index    *catalog.Index
	Pipeline *export.Pipeline
	Pool     *export.Pool
	Stats    stats.Store

	// MaxCustomCount bounds manually entered record counts.
	MaxCustomCount int
}

// Machine drives the per-user conversation. All state transitions for one
// user run under that user's session lock; exports run on the pool so the
// update path never blocks on file IO.
type Machine struct {
	sessions  *session.Store
	index     *catalog.Index
	pipeline  *export.Pipeline
	pool      *export.Pool
	stats     stats.Store
	maxCustom int
}

// NewMachine builds a conversation machine. A nil Pool makes exports run
// inline, which tests rely on.
func NewMachine(opts Options) *Machine {
	maxCustom := opts.MaxCustomCount
	if maxCustom <= 0 {
		maxCustom = 10000
	}
	return &Machine{
		sessions:  opts.Sessions,
		index:     opts.Index,
		pipeline:  opts.Pipeline,
		pool:      opts.Pool,
		stats:     opts.Stats,
		maxCustom: maxCustom,
	}
}

// Handle processes one event under the user's session lock.
func (m *Machine) Handle(ctx context.Context, ev Event, out Outbox) error {
	var err error
	m.sessions.Update(ev.UserID, func(s *session.Session) {
		err = m.handle(ctx, ev, s, out)
	})
	return err
}

func (m *Machine) handle(ctx context.Context, ev Event, s *session.Session, out Outbox) error {
	switch ev.Action {
	case ActionStart:
		s.Stage = session.StageAwaitingLocale
		return out.Prompt(ctx, localePrompt())

	case ActionLanguage:
		s.Locale = texts.ParseLocale(ev.Payload)
		s.Stage = session.StageAwaitingDatasetType
		return out.Prompt(ctx, homePrompt(s.Locale))

	case ActionHome:
		s.Reset()
		return out.Prompt(ctx, homePrompt(s.Locale))

	case ActionStats:
		snap, err := m.stats.Snapshot(ctx)
		if err != nil {
			logger.Flow.Error("stats snapshot failed",
				slog.String("event", "stats"),
				slog.Int64("user_id", ev.UserID),
				slog.String("err", err.Error()),
			)
			return m.fail(ctx, s, out, "error")
		}
		return out.Prompt(ctx, statsPrompt(s.Locale, snap))

	case ActionDatasetType:
		dt, ok := catalog.ParseDatasetType(ev.Payload)
		if !ok {
			return m.rerender(ctx, s, out)
		}
		s.SetDatasetType(dt)
		// An empty directory still gets the category menu: zero buttons,
		// total 0, navigation only.
		s.Stage = session.StageAwaitingCategory
		return out.Prompt(ctx, categoryPrompt(s.Locale, m.index.List(dt)))

	case ActionCategory:
		if s.Stage != session.StageAwaitingCategory || s.DatasetType == "" {
			return m.rerender(ctx, s, out)
		}
		entry, ok := m.index.Lookup(s.DatasetType, ev.Payload)
		if !ok {
			return out.Prompt(ctx, noDataPrompt(s.Locale))
		}
		s.SetCategory(entry.Key)
		s.Stage = session.StageAwaitingCount
		return out.Prompt(ctx, countPrompt(s.Locale, entry))

	case ActionCount:
		if s.Stage != session.StageAwaitingCount {
			return m.rerender(ctx, s, out)
		}
		switch ev.Payload {
		case "custom":
			s.AwaitingManualCount = true
			return out.Prompt(ctx, manualCountPrompt(s.Locale))
		case "all":
			s.RecordLimit = export.AllRecords
		default:
			n, err := strconv.Atoi(ev.Payload)
			if err != nil || n <= 0 {
				return m.rerender(ctx, s, out)
			}
			s.RecordLimit = n
		}
		s.AwaitingManualCount = false
		s.Stage = session.StageAwaitingFormat
		return out.Prompt(ctx, formatPrompt(s.Locale))

	case ActionText:
		if s.Stage == session.StageAwaitingCount && s.AwaitingManualCount {
			n, ok := parseManualCount(ev.Payload, m.maxCustom)
			if !ok {
				return out.Prompt(ctx, invalidCountPrompt(s.Locale))
			}
			s.RecordLimit = n
			s.AwaitingManualCount = false
			s.Stage = session.StageAwaitingFormat
			return out.Prompt(ctx, formatPrompt(s.Locale))
		}
		return m.rerender(ctx, s, out)

	case ActionFormat:
		return m.handleFormat(ctx, ev, s, out)

	case ActionBack:
		return m.handleBack(ctx, s, out)
	}

	return m.rerender(ctx, s, out)
}

func (m *Machine) handleFormat(ctx context.Context, ev Event, s *session.Session, out Outbox) error {
	if s.Stage != session.StageAwaitingFormat || s.Category == "" || s.RecordLimit == 0 {
		return m.rerender(ctx, s, out)
	}
	format, ok := export.ParseFormat(ev.Payload)
	if !ok {
		return m.rerender(ctx, s, out)
	}
	entry, found := m.index.Lookup(s.DatasetType, s.Category)
	if !found {
		return m.fail(ctx, s, out, "no_file")
	}

	locale := s.Locale
	req := export.Request{
		SourcePath: entry.SourcePath,
		Limit:      s.RecordLimit,
		Format:     format,
		Labels: export.TxtLabels{
			Record: texts.T(locale, "txt_record"),
			Total:  texts.T(locale, "txt_total"),
		},
	}
	userID := ev.UserID

	// Back to home before the export even starts, so a slow job never
	// wedges the conversation.
	s.Reset()

	if err := out.Prompt(ctx, loadingPrompt(locale)); err != nil {
		return err
	}

	run := func(jctx context.Context) {
		m.runExport(jctx, userID, locale, req, out)
	}
	if m.pool == nil {
		run(ctx)
		return nil
	}
	if err := m.pool.Submit(run); err != nil {
		logger.Flow.Warn("export pool saturated, running inline",
			slog.String("event", "export.submit"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		run(ctx)
	}
	return nil
}

func (m *Machine) runExport(ctx context.Context, userID int64, locale texts.Locale, req export.Request, out Outbox) {
	art, err := m.pipeline.Materialize(ctx, req)
	if err != nil {
		logger.Flow.Error("export failed",
			slog.String("event", "export.run"),
			slog.Int64("user_id", userID),
			slog.String("source", req.SourcePath),
			slog.String("err", err.Error()),
		)
		_ = out.Prompt(ctx, errorPrompt(locale, "error"))
		return
	}

	if err := m.stats.IncrementDownloads(ctx); err != nil {
		logger.Flow.Warn("download counter not updated",
			slog.String("event", "export.stats"),
			slog.String("err", err.Error()),
		)
	}

	caption := fmt.Sprintf("%s: %d", texts.T(locale, "exported"), art.Records)
	if err := out.SendFile(ctx, File{Name: art.Name, Caption: caption, Content: art.Content}); err != nil {
		logger.Flow.Error("export delivery failed",
			slog.String("event", "export.send"),
			slog.Int64("user_id", userID),
			slog.String("name", art.Name),
			slog.String("err", err.Error()),
		)
		_ = out.Prompt(ctx, errorPrompt(locale, "error"))
		return
	}

	_ = out.Prompt(ctx, successPrompt(locale, art.Records))
}

func (m *Machine) handleBack(ctx context.Context, s *session.Session, out Outbox) error {
	switch s.Stage {
	case session.StageAwaitingFormat:
		s.RecordLimit = 0
		s.AwaitingManualCount = false
		s.Stage = session.StageAwaitingCount
		entry, ok := m.index.Lookup(s.DatasetType, s.Category)
		if !ok {
			return m.fail(ctx, s, out, "no_file")
		}
		return out.Prompt(ctx, countPrompt(s.Locale, entry))

	case session.StageAwaitingCount:
		s.SetCategory("")
		s.Stage = session.StageAwaitingCategory
		return out.Prompt(ctx, categoryPrompt(s.Locale, m.index.List(s.DatasetType)))

	case session.StageAwaitingCategory:
		s.SetDatasetType("")
		s.Stage = session.StageAwaitingDatasetType
		return out.Prompt(ctx, homePrompt(s.Locale))

	default:
		s.Stage = session.StageAwaitingLocale
		return out.Prompt(ctx, localePrompt())
	}
}

// rerender repeats the prompt for the stage the user is currently in.
// Used for stale callbacks and unrecognized input.
func (m *Machine) rerender(ctx context.Context, s *session.Session, out Outbox) error {
	switch s.Stage {
	case session.StageInit, session.StageAwaitingLocale:
		return out.Prompt(ctx, localePrompt())
	case session.StageAwaitingCategory:
		return out.Prompt(ctx, categoryPrompt(s.Locale, m.index.List(s.DatasetType)))
	case session.StageAwaitingCount:
		if s.AwaitingManualCount {
			return out.Prompt(ctx, manualCountPrompt(s.Locale))
		}
		entry, ok := m.index.Lookup(s.DatasetType, s.Category)
		if !ok {
			return m.fail(ctx, s, out, "no_file")
		}
		return out.Prompt(ctx, countPrompt(s.Locale, entry))
	case session.StageAwaitingFormat:
		return out.Prompt(ctx, formatPrompt(s.Locale))
	}
	return out.Prompt(ctx, homePrompt(s.Locale))
}

// fail resets the session to home and reports the error key to the user.
func (m *Machine) fail(ctx context.Context, s *session.Session, out Outbox, key string) error {
	s.Reset()
	return out.Prompt(ctx, errorPrompt(s.Locale, key))
}

// parseManualCount validates a typed record count. Only positive decimal
// integers within the bound are accepted.
func parseManualCount(raw string, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
