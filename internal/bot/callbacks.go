package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/logger"
)

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if !b.checkAdminCallback(cq) {
		return
	}
	if cq.Message == nil {
		b.answerCallback(cq, "")
		return
	}

	data := cq.Data
	action, arg := data, ""
	if idx := strings.Index(data, ":"); idx >= 0 {
		action, arg = data[:idx], data[idx+1:]
	}

	switch action {
	case "back_menu":
		b.sessions.clear(cq.Message.Chat.ID)
		b.replyWithKeyboard(cq.Message.Chat.ID, "Main menu", mainMenuKeyboard())
		b.answerCallback(cq, "")

	case "rentals_list", "rentals_refresh":
		b.editRentalsList(ctx, cq, action == "rentals_refresh")

	case "rental_open":
		b.openRental(ctx, cq, parseID(arg))

	case "rental_renew", "renew":
		b.renewRental(ctx, cq, parseID(arg))

	case "rental_close", "close":
		b.closeRental(ctx, cq, parseID(arg))

	case "tools_list":
		b.sendCatalogList(ctx, cq.Message.Chat.ID)
		b.answerCallback(cq, "")

	case "tool_open":
		b.openTool(ctx, cq, parseID(arg))

	case "tool_do_rename":
		b.sessions.put(cq.Message.Chat.ID, session{Step: stepRenaming, ToolID: parseID(arg)})
		b.editText(cq, "Enter the new name:")
		b.answerCallback(cq, "")

	case "tool_do_price":
		b.sessions.put(cq.Message.Chat.ID, session{Step: stepPricing, ToolID: parseID(arg)})
		b.editText(cq, "Enter the new price (number):")
		b.answerCallback(cq, "")

	case "tool_do_delete":
		if err := b.catalog.Delete(ctx, parseID(arg)); err != nil {
			b.alertCallback(cq, "Failed to delete")
			return
		}
		b.editText(cq, "✅ Tool deleted")
		b.answerCallback(cq, "")

	case "reset_db_confirm":
		if err := b.resetter.ResetAll(ctx); err != nil {
			logger.Error("Database reset failed", "error", err)
			b.alertCallback(cq, "Reset failed")
			return
		}
		logger.Info("Database reset completed", "user_id", cq.From.ID)
		b.editText(cq, "✅ Storage wiped. Starting fresh.")
		b.answerCallback(cq, "")

	case "deposit":
		b.applyDeposit(cq, arg)

	case "payment":
		b.applyPayment(cq, arg)

	case "delivery":
		b.applyDelivery(ctx, cq, arg)

	default:
		b.answerCallback(cq, "")
	}
}

func (b *Bot) editRentalsList(ctx context.Context, cq *tgbotapi.CallbackQuery, refreshed bool) {
	rentals, err := b.rentals.ListActive(ctx, cq.From.ID)
	if err != nil {
		b.alertCallback(cq, "Failed to load rentals")
		return
	}
	if len(rentals) == 0 {
		b.editText(cq, "✅ All tools returned. No active rentals.")
		b.answerCallback(cq, "")
		return
	}
	b.editTextAndMarkup(cq, "📋 Active rentals (time remaining):", rentalsListKeyboard(rentals, b.clk.Now()))
	if refreshed {
		b.answerCallback(cq, "Refreshed")
	} else {
		b.answerCallback(cq, "")
	}
}

func (b *Bot) openRental(ctx context.Context, cq *tgbotapi.CallbackQuery, rentalID int64) {
	rental, err := b.rentals.Get(ctx, rentalID)
	if err != nil || !rental.Active {
		b.alertCallback(cq, "The rental is not active")
		return
	}
	b.editTextAndMarkup(cq, formatRentalCard(rental, b.clk.Now(), b.clk.Location(), false), rentalMenuKeyboard(rentalID))
	b.answerCallback(cq, "")
}

func (b *Bot) renewRental(ctx context.Context, cq *tgbotapi.CallbackQuery, rentalID int64) {
	rental, err := b.rentals.Renew(ctx, rentalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.alertCallback(cq, "Rental not found")
			return
		}
		logger.Error("Failed to renew rental", "rental_id", rentalID, "error", err)
		b.alertCallback(cq, "Renewal failed")
		return
	}
	b.editTextAndMarkup(cq, formatRentalCard(rental, b.clk.Now(), b.clk.Location(), true), rentalMenuKeyboard(rentalID))
	b.answerCallback(cq, "Rental renewed")
}

func (b *Bot) closeRental(ctx context.Context, cq *tgbotapi.CallbackQuery, rentalID int64) {
	if err := b.rentals.Close(ctx, rentalID); err != nil {
		logger.Error("Failed to close rental", "rental_id", rentalID, "error", err)
		b.alertCallback(cq, "Close failed")
		return
	}
	b.editText(cq, "🔒 The rental is closed")
	b.answerCallback(cq, "")
}

func (b *Bot) openTool(ctx context.Context, cq *tgbotapi.CallbackQuery, toolID int64) {
	tool, err := b.catalog.GetByID(ctx, toolID)
	if err != nil {
		b.alertCallback(cq, "Not found")
		return
	}
	b.sessions.put(cq.Message.Chat.ID, session{Step: stepToolMenu, ToolID: toolID})
	b.editTextAndMarkup(cq, fmt.Sprintf("🔧 %s — %d", tool.Name, tool.Price), toolMenuKeyboard(toolID))
	b.answerCallback(cq, "")
}

func (b *Bot) applyDeposit(cq *tgbotapi.CallbackQuery, arg string) {
	chatID := cq.Message.Chat.ID
	sess := b.sessions.get(chatID)
	if sess.Step != stepDeposit {
		b.answerCallback(cq, "")
		return
	}
	deposit, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || deposit < 0 {
		b.alertCallback(cq, "Invalid deposit")
		return
	}
	sess.Deposit = deposit
	sess.Step = stepPayment
	b.sessions.put(chatID, sess)
	b.editTextAndMarkup(cq, "💳 Payment method:", paymentKeyboard())
	b.answerCallback(cq, "")
}

func (b *Bot) applyPayment(cq *tgbotapi.CallbackQuery, arg string) {
	chatID := cq.Message.Chat.ID
	sess := b.sessions.get(chatID)
	if sess.Step != stepPayment {
		b.answerCallback(cq, "")
		return
	}
	switch domain.PaymentMethod(arg) {
	case domain.PaymentCash, domain.PaymentTransfer:
		sess.PaymentMethod = domain.PaymentMethod(arg)
	default:
		b.alertCallback(cq, "Invalid payment method")
		return
	}
	sess.Step = stepDelivery
	b.sessions.put(chatID, sess)
	b.editTextAndMarkup(cq, "🚚 Delivery or pickup?", deliveryKeyboard())
	b.answerCallback(cq, "")
}

func (b *Bot) applyDelivery(ctx context.Context, cq *tgbotapi.CallbackQuery, arg string) {
	chatID := cq.Message.Chat.ID
	sess := b.sessions.get(chatID)
	if sess.Step != stepDelivery {
		b.answerCallback(cq, "")
		return
	}
	switch domain.DeliveryType(arg) {
	case domain.DeliveryCourier:
		sess.DeliveryType = domain.DeliveryCourier
		sess.Step = stepAddress
		b.sessions.put(chatID, sess)
		b.editText(cq, "📍 Enter the delivery address:")
		b.answerCallback(cq, "")
	case domain.DeliveryPickup:
		sess.DeliveryType = domain.DeliveryPickup
		sess.Address = ""
		b.finishRental(ctx, cq.From.ID, chatID, sess, func(t string) { b.editText(cq, t) })
		b.answerCallback(cq, "")
	default:
		b.alertCallback(cq, "Invalid delivery type")
	}
}

func (b *Bot) editText(cq *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func (b *Bot) editTextAndMarkup(cq *tgbotapi.CallbackQuery, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(cq.Message.Chat.ID, cq.Message.MessageID, text, kb)
	edit.ParseMode = tgbotapi.ModeHTML
	b.send(edit)
}

func parseID(arg string) int64 {
	id, _ := strconv.ParseInt(arg, 10, 64)
	return id
}
