package middleware

import (
	"context"
	"time"

	"github.com/parsertg/parsertg/core/logger"
	tghelpers "github.com/parsertg/parsertg/core/telegram/helpers"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// ActivityTracker marks users as seen/active. Implementations must tolerate
// redundant calls for the same user.
type ActivityTracker interface {
	RecordUserSeen(ctx context.Context, userID int64) error
}

// ActivityMiddleware notes every interacting user in the tracker.
// Tracker failures are logged and swallowed; they never block an update.
func ActivityMiddleware(tracker ActivityTracker) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if tracker != nil && user != nil {
				rid := logger.RIDFrom(tghelpers.BuildContext(c))
				userID := user.ID
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					ctx = logger.WithRID(ctx, rid)
					if err := tracker.RecordUserSeen(ctx, userID); err != nil {
						logger.Warn(ctx, "stats", "user_seen.failed",
							slog.Int64("user_id", userID),
							slog.String("err", err.Error()),
						)
					}
				}()
			}
			return next(c)
		}
	}
}
