package notify

import (
	"context"
	"fmt"

	"github.com/TheAndersMadsen/shopify-monitor/internal/htmltext"
	"github.com/TheAndersMadsen/shopify-monitor/internal/logger"
	"gopkg.in/telebot.v4"
)

// TelegramAPI is the slice of the bot client the notifier needs.
type TelegramAPI interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Telegram delivers change notifications to a fixed chat. It is a
// send-only channel; the monitor has no inbound command surface here.
type Telegram struct {
	bcast  *logger.Broadcaster
	api    TelegramAPI
	chatID int64
}

// NewTelegramBot creates the underlying bot client for a token.
func NewTelegramBot(token string) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	return bot, nil
}

func NewTelegram(bcast *logger.Broadcaster, api TelegramAPI, chatID int64) *Telegram {
	return &Telegram{bcast: bcast, api: api, chatID: chatID}
}

func (t *Telegram) Send(_ context.Context, event Event) error {
	text := fmt.Sprintf("[%s] %s\n%s",
		event.Kind, htmltext.Normalize(event.Product.Title), ProductURL(event.Site, event.Product))
	if event.Changes != "" {
		text += "\n\nChanges Detected:\n" + event.Changes
	}

	if _, err := t.api.Send(telebot.ChatID(t.chatID), text); err != nil {
		t.bcast.Error(fmt.Sprintf("Failed to send Telegram message: %v", err))
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}

	t.bcast.Success(fmt.Sprintf("Sent Telegram message for %s", event.Product.Title))

	return nil
}
