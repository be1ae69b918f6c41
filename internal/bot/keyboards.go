package bot

import (
	"github.com/m3rciful/pdfbot/core/telegram/keyboard"
	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/style"

	tele "gopkg.in/telebot.v4"
)

// Callback keys routed through the registry; the selected identifier
// travels in the payload.
const (
	cbStyle   = "style"
	cbQuality = "quality"
)

func styleKeyboard() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(style.All()))
	for _, id := range style.All() {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   style.Label(id),
			Unique: cbStyle,
			Data:   string(id),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func qualityKeyboard() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(pdfgen.All()))
	for _, q := range pdfgen.All() {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   pdfgen.Label(q),
			Unique: cbQuality,
			Data:   string(q),
		})
	}
	return keyboard.InlineButtons(buttons)
}
