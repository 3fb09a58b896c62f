package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Mohammad-Alipour/ytgate/internal/downloader"
)

// formatMenu is one MP3 row followed by one row of resolutions.
func formatMenu() tgbotapi.InlineKeyboardMarkup {
	audio := downloader.ChoiceMP3
	videos := make([]tgbotapi.InlineKeyboardButton, 0, len(downloader.VideoChoices))
	for _, c := range downloader.VideoChoices {
		videos = append(videos, tgbotapi.NewInlineKeyboardButtonData(c.Label(), c.Token()))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(audio.Label(), audio.Token())),
		videos,
	)
}
