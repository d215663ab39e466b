package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/config"
	"toolrent-bot/internal/logger"
	"toolrent-bot/internal/scheduler"
	"toolrent-bot/internal/service"
)

// Bot is the Telegram transport. It owns no rental logic: every update is
// translated into calls on the services and the expiration scheduler.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	rentals  service.RentalService
	ledger   service.LedgerService
	catalog  service.CatalogService
	reports  service.ReportService
	expirer  *scheduler.ExpirationScheduler
	resetter Resetter
	clk      *clock.Clock
	sessions *sessionStore
}

// Resetter is the destructive wipe used by the /reset confirmation.
type Resetter interface {
	ResetAll(ctx context.Context) error
}

func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	ledger service.LedgerService,
	catalog service.CatalogService,
	reports service.ReportService,
	resetter Resetter,
	clk *clock.Clock,
) *Bot {
	return &Bot{
		api:      api,
		cfg:      cfg,
		ledger:   ledger,
		catalog:  catalog,
		reports:  reports,
		resetter: resetter,
		clk:      clk,
		sessions: newSessionStore(),
	}
}

// SetExpirer wires the expiration scheduler after construction. The scheduler
// needs the bot as its notifier and the bot needs the scheduler for the test
// trigger command, so one side is attached late.
func (b *Bot) SetExpirer(expirer *scheduler.ExpirationScheduler) {
	b.expirer = expirer
}

// SetRentals wires the rental service after construction, for the same
// reason: the service holds the scheduler, which holds this bot.
func (b *Bot) SetRentals(rentals service.RentalService) {
	b.rentals = rentals
}

// Run polls Telegram for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	logger.Info("Bot polling started", "username", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Info("Bot polling stopped")
			return
		case update := <-updates:
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		logger.Debug("Callback received", "update_id", update.UpdateID, "data", update.CallbackQuery.Data)
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		logger.Debug("Message received", "update_id", update.UpdateID, "chat_id", update.Message.Chat.ID)
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Error("Failed to send message", "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	b.send(msg)
}

// checkAdmin enforces the allow-list for plain messages.
func (b *Bot) checkAdmin(message *tgbotapi.Message) bool {
	if b.cfg.IsAdmin(message.From.ID) {
		return true
	}
	b.reply(message.Chat.ID, "🚫 <b>Access denied</b>\n\nThis bot is available to administrators only.")
	return false
}

// checkAdminCallback enforces the allow-list for button presses.
func (b *Bot) checkAdminCallback(cq *tgbotapi.CallbackQuery) bool {
	if b.cfg.IsAdmin(cq.From.ID) {
		return true
	}
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cq.ID, "🚫 Access denied")); err != nil {
		logger.Error("Failed to answer callback", "error", err)
	}
	return false
}

func (b *Bot) answerCallback(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		logger.Error("Failed to answer callback", "error", err)
	}
}

func (b *Bot) alertCallback(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cq.ID, text)); err != nil {
		logger.Error("Failed to answer callback", "error", err)
	}
}
