package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifyExpired delivers the expiration prompt with renew/close action
// buttons. Implements scheduler.Notifier.
func (b *Bot) NotifyExpired(ctx context.Context, userID, rentalID int64, toolName string) error {
	text := fmt.Sprintf("⏰ The rental of \"%s\" has expired.\nWhat would you like to do?", toolName)
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = expirationKeyboard(rentalID)
	_, err := b.api.Send(msg)
	return err
}

// SendMessage delivers a plain text message. Implements jobs.Messenger.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}
