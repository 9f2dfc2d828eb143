package notify

import (
	"context"
	"esxi-stats/app/logging"
	"esxi-stats/vsphere/protocol"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"net/http"
	"time"
)

type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	return NewTelegramSinkWithEndpoint(token, chatID, tgbotapi.APIEndpoint)
}

// NewTelegramSinkWithEndpoint talks to a custom bot API, endpoint has the form ".../bot%s/%s".
func NewTelegramSinkWithEndpoint(token string, chatID int64, endpoint string) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logging.L().Infof("telegram notifications as @%s", bot.Self.UserName)
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (t *TelegramSink) Name() string { return "telegram" }

func (t *TelegramSink) Send(_ context.Context, n protocol.Notification) error {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("%s\n\n%s", n.Title, n.Message))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
