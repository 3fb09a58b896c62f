package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Mohammad-Alipour/ytgate/internal/downloader"
	"github.com/Mohammad-Alipour/ytgate/internal/logger"
)

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	log := logger.FromContext(ctx, b.log).WithFields(logrus.Fields{
		"user_id": q.From.ID,
		"data":    q.Data,
	})

	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.WithError(err).Warn("Failed to answer callback query")
	}
	if q.Message == nil {
		return
	}
	chatID, messageID := q.Message.Chat.ID, q.Message.MessageID

	link, err := b.sessions.Link(q.From.ID)
	if err != nil {
		b.edit(ctx, chatID, messageID, msgNoLink)
		return
	}

	b.edit(ctx, chatID, messageID, msgProcessing)

	choice, err := downloader.ParseChoice(q.Data)
	if err != nil {
		log.WithError(err).Warn("Rejected callback")
		b.edit(ctx, chatID, messageID, errorReply(err))
		return
	}

	log.WithField("link", link).Info("Download requested")
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		b.deliver(ctx, chatID, messageID, link, choice)
	}()
}

// deliver downloads link, sends the result to chatID and removes the local
// file on every path.
func (b *Bot) deliver(ctx context.Context, chatID int64, messageID int, link string, choice downloader.Choice) {
	log := logger.FromContext(ctx, b.log).WithField("choice", choice.Token())

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Download handler panicked")
			b.edit(ctx, chatID, messageID, errorReply(fmt.Errorf("%v", r)))
		}
	}()

	if err := b.slots.Acquire(ctx, 1); err != nil {
		log.WithError(err).Warn("Download abandoned while waiting for a slot")
		return
	}
	defer b.slots.Release(1)

	art, err := b.fetcher.Fetch(ctx, link, choice)
	if err != nil {
		log.WithError(err).Error("Download failed")
		if errors.Is(err, downloader.ErrNoOutput) {
			b.edit(ctx, chatID, messageID, msgNoOutput)
		} else {
			b.edit(ctx, chatID, messageID, errorReply(err))
		}
		return
	}
	defer func() {
		if err := art.Remove(); err != nil {
			log.WithError(err).WithField("file", art.Path).Warn("Failed to remove downloaded file")
		}
	}()

	if art.Size > b.maxFileSize {
		log.WithField("size", art.Size).Info("File exceeds upload limit")
		b.edit(ctx, chatID, messageID, tooLarge(art.Size))
		return
	}

	if _, err := b.api.Send(attachment(chatID, messageID, art)); err != nil {
		log.WithError(err).Error("Failed to send file")
		b.edit(ctx, chatID, messageID, errorReply(err))
		return
	}
	log.WithField("size", art.Size).Info("File sent")
}

func attachment(chatID int64, replyTo int, art *downloader.Artifact) tgbotapi.Chattable {
	file := tgbotapi.FilePath(art.Path)
	if art.Choice.Mode == downloader.ModeAudio {
		audio := tgbotapi.NewAudio(chatID, file)
		audio.Caption = msgAudioCaption
		audio.ReplyToMessageID = replyTo
		return audio
	}
	video := tgbotapi.NewVideo(chatID, file)
	video.Caption = videoCaption(art.Choice.Height)
	video.ReplyToMessageID = replyTo
	return video
}
