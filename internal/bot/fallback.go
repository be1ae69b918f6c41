package bot

import (
	"github.com/m3rciful/pdfbot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

var _ ui.FallbackProvider = (*App)(nil)

// UnknownText handles text from users with no active conversation.
func (a *App) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.sendText(c, msgNoSession)
	}
}

// UnknownPhoto handles images sent before /start.
func (a *App) UnknownPhoto() tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.sendText(c, msgNoSession)
	}
}

// UnknownDocument handles file uploads, which this bot does not accept.
func (a *App) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.sendText(c, "Please send images as photos, not files.")
	}
}

// UnknownCallback answers button presses that no longer map to anything,
// typically leftovers from a finished or cancelled conversation.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		_ = c.Respond(&tele.CallbackResponse{Text: "This action is no longer available"})
		return nil
	}
}
