package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram sends alerts to a single chat via the Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

// Notify sends in a goroutine so a slow or failing Bot API never stalls a
// monitoring tick.
func (t *Telegram) Notify(ctx context.Context, text string) {
	if ctx.Err() != nil {
		return
	}
	go func() {
		if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
			t.log.Warn("telegram delivery failed", zap.Error(err))
		}
	}()
}
