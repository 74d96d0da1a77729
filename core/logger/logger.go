package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	coreconfig "github.com/parsertg/parsertg/core/config"
)

var (
	initOnce sync.Once

	levelVar slog.LevelVar

	// L is the base logger used when no context-scoped logger is available.
	L *slog.Logger

	// TG logs Telegram transport events.
	TG *slog.Logger
	// DB logs database-related events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
	// Flow logs conversation state machine events.
	Flow *slog.Logger
	// Catalog logs dataset index events.
	Catalog *slog.Logger
	// Export logs export pipeline events.
	Export *slog.Logger
	// Stats logs statistics store events.
	Stats *slog.Logger
)

func init() {
	// Safe defaults until InitLogger runs (tests, early startup).
	wireComponents(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar})))
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		if selectFormat(cfg) == "json" {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wireComponents(logger)
	})
	return nil
}

func wireComponents(base *slog.Logger) {
	L = base
	TG = base.With("component", "tg")
	DB = base.With("component", "db")
	MIG = base.With("component", "db.migrate")
	TWire = base.With("component", "tg.wire")
	Flow = base.With("component", "flow")
	Catalog = base.With("component", "catalog")
	Export = base.With("component", "export")
	Stats = base.With("component", "stats")
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	level := ""
	if cfg != nil {
		level = cfg.Logging.Level
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(cfg *coreconfig.Config) string {
	if cfg == nil {
		return "text"
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Logging.Format), "json") {
		return "json"
	}
	return "text"
}

// Shutdown flushes logging resources before process exit.
func Shutdown() error {
	return nil
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default()
	}
	return L.With("component", name)
}

// LogEvent emits a structured event enriched with correlation data from ctx.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if log == nil {
		log = FromContext(ctx)
	}
	if rid := RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", CompactRID(rid)))
	}
	if userID := UserIDFrom(ctx); userID != 0 {
		attrs = append(attrs, slog.Int64("user_id", userID))
	}
	if handler := HandlerFrom(ctx); handler != "" {
		attrs = append(attrs, slog.String("handler", handler))
	}
	log.LogAttrs(ctx, level, event, attrs...)
}

// Debug logs a debug event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}
