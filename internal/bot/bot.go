package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/Mohammad-Alipour/ytgate/internal/config"
	"github.com/Mohammad-Alipour/ytgate/internal/downloader"
	"github.com/Mohammad-Alipour/ytgate/internal/logger"
	"github.com/Mohammad-Alipour/ytgate/internal/membership"
	"github.com/Mohammad-Alipour/ytgate/internal/session"
)

// API is the subset of *tgbotapi.BotAPI used by the bot.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Fetcher downloads a link in the chosen format.
type Fetcher interface {
	Fetch(ctx context.Context, link string, choice downloader.Choice) (*downloader.Artifact, error)
}

// ErrUpdatesClosed is returned by Run when the update feed stops on its own.
var ErrUpdatesClosed = errors.New("telegram update channel closed")

type Bot struct {
	api         API
	gate        *membership.Gate
	sessions    *session.Store
	fetcher     Fetcher
	maxFileSize int64
	slots       *semaphore.Weighted
	log         logrus.FieldLogger

	inflight sync.WaitGroup
}

// Dial connects to the Bot API with token.
func Dial(token string, debug bool, log logrus.FieldLogger) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is not configured")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram Bot API: %w", err)
	}
	api.Debug = debug

	log.Infof("Authorized on account %s (@%s)", api.Self.FirstName, api.Self.UserName)
	return api, nil
}

// New builds a bot with an empty session store.
func New(cfg *config.Config, api API, fetcher Fetcher, log logrus.FieldLogger) *Bot {
	return &Bot{
		api:         api,
		gate:        membership.NewGate(api, cfg.ForceJoinChannel, log),
		sessions:    session.NewStore(cfg.SessionMaxEntries, cfg.SessionTTL),
		fetcher:     fetcher,
		maxFileSize: cfg.MaxFileSize(),
		slots:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		log:         log,
	}
}

// Run consumes updates until ctx is cancelled or the feed closes. Updates are
// handled one at a time in arrival order; downloads continue in the
// background and are waited for before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("Bot is starting to listen for updates...")
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.inflight.Wait()
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Bot is stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return ErrUpdatesClosed
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = logger.WithRequestID(ctx, logger.NewRequestID())

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	logger.FromContext(ctx, b.log).WithFields(logrus.Fields{
		"user_id":  msg.From.ID,
		"username": msg.From.UserName,
		"text":     msg.Text,
	}).Debug("Incoming message")

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		default:
			b.reply(ctx, msg.Chat.ID, msgUnknownCommand, nil)
		}
		return
	}

	if msg.Text != "" {
		b.handleLink(ctx, msg)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		logger.FromContext(ctx, b.log).WithError(err).WithField("chat_id", chatID).Error("Error sending message")
	}
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		logger.FromContext(ctx, b.log).WithError(err).WithField("chat_id", chatID).Error("Error editing message")
	}
}
