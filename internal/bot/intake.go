package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Mohammad-Alipour/ytgate/internal/logger"
	"github.com/Mohammad-Alipour/ytgate/internal/youtube"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if !b.gate.IsMember(ctx, msg.From.ID) {
		b.reply(ctx, msg.Chat.ID, joinPromptStart(b.gate.Channel()), nil)
		return
	}
	b.reply(ctx, msg.Chat.ID, msgGreeting, nil)
}

// handleLink stores a YouTube link as the user's pending link and shows the
// format menu.
func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	if !b.gate.IsMember(ctx, userID) {
		b.reply(ctx, msg.Chat.ID, joinPromptLink(b.gate.Channel()), nil)
		return
	}

	if !youtube.IsYouTubeLink(text) {
		b.reply(ctx, msg.Chat.ID, msgInvalidLink, nil)
		return
	}

	b.sessions.Put(userID, text)
	logger.FromContext(ctx, b.log).WithFields(logrus.Fields{
		"user_id": userID,
		"link":    text,
	}).Info("Link stored")

	b.reply(ctx, msg.Chat.ID, msgSelectFormat, formatMenu())
}
