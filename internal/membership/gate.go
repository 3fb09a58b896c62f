// Package membership decides whether a Telegram user may use the bot by
// checking their status in a required channel.
package membership

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Mohammad-Alipour/ytgate/internal/logger"
)

// ChatMemberGetter is the slice of the Bot API the gate needs.
type ChatMemberGetter interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

var authorized = map[string]bool{
	"member":        true,
	"administrator": true,
	"creator":       true,
}

type Gate struct {
	api     ChatMemberGetter
	channel string
	log     logrus.FieldLogger
}

// NewGate returns a gate for channel (an @handle). An empty channel admits
// everyone.
func NewGate(api ChatMemberGetter, channel string, log logrus.FieldLogger) *Gate {
	return &Gate{api: api, channel: channel, log: log}
}

func (g *Gate) Channel() string {
	return g.channel
}

// IsMember fails closed: lookup errors count as "not a member".
func (g *Gate) IsMember(ctx context.Context, userID int64) bool {
	if g.channel == "" {
		return true
	}

	member, err := g.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: g.channel,
			UserID:             userID,
		},
	})
	if err != nil {
		logger.FromContext(ctx, g.log).WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"channel": g.channel,
		}).Warn("Membership lookup failed")
		return false
	}

	return authorized[member.Status]
}
