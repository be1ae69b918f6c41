package middleware

import (
	"github.com/m3rciful/pdfbot/core/logger"
	tghelpers "github.com/m3rciful/pdfbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StateGetter reports the conversation state for a user; empty means the
// user has no active conversation.
type StateGetter interface {
	GetState(userID int64) string
}

// State returns a middleware that runs the handler only when the user's
// conversation is in the expected state. Anything else is dropped, so a
// stale inline button never reaches a handler it no longer belongs to.
func State(mgr StateGetter, expectedState string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			currentState := mgr.GetState(userID)
			ctx := tghelpers.BuildContext(c)
			if currentState == expectedState {
				logger.TG.LogAttrs(ctx, slog.LevelDebug, "fsm.match",
					slog.Int64("user_id", userID),
					slog.String("state", currentState),
					slog.String("expected", expectedState),
					slog.String("rid", logger.RIDFrom(ctx)),
				)
				return next(c)
			}
			logger.TG.LogAttrs(ctx, slog.LevelDebug, "fsm.skip",
				slog.Int64("user_id", userID),
				slog.String("state", currentState),
				slog.String("expected", expectedState),
				slog.String("rid", logger.RIDFrom(ctx)),
			)
			return nil
		}
	}
}
