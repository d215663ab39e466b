package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"toolrent-bot/internal/domain"
)

// Main menu button labels. The FSM handlers check for these so a menu tap
// always escapes a half-finished conversation.
const (
	btnRentals      = "📋 Rentals"
	btnReportNow    = "📊 Report now"
	btnReportByDate = "📅 Report by date"
	btnCatalog      = "📚 Catalog"
	btnImportCSV    = "⬆️ Import CSV"
	btnSetPrice     = "💵 Set price"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRentals),
			tgbotapi.NewKeyboardButton(btnReportNow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnReportByDate),
			tgbotapi.NewKeyboardButton(btnCatalog),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnImportCSV),
			tgbotapi.NewKeyboardButton(btnSetPrice),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func rentalsListKeyboard(rentals []domain.Rental, now time.Time) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range rentals {
		label := fmt.Sprintf("%s — %s", r.ToolName, formatRemaining(&r, now))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("rental_open:%d", r.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Refresh", "rentals_refresh"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ Menu", "back_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func rentalMenuKeyboard(rentalID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Renew for 24h", fmt.Sprintf("rental_renew:%d", rentalID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Close now", fmt.Sprintf("rental_close:%d", rentalID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back to list", "rentals_list"),
		),
	)
}

func toolsListKeyboard(tools []domain.Tool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range tools {
		label := fmt.Sprintf("%s (%d)", t.Name, t.Price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("tool_open:%d", t.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ Back", "back_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func toolMenuKeyboard(toolID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename", fmt.Sprintf("tool_do_rename:%d", toolID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💵 Change price", fmt.Sprintf("tool_do_price:%d", toolID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("tool_do_delete:%d", toolID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back to list", "tools_list"),
		),
	)
}

func expirationKeyboard(rentalID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Renew rental", fmt.Sprintf("renew:%d", rentalID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Tool returned", fmt.Sprintf("close:%d", rentalID)),
		),
	)
}

func paymentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💵 Cash", "payment:cash"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Transfer", "payment:transfer"),
		),
	)
}

func deliveryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚚 Delivery", "delivery:delivery"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Pickup", "delivery:pickup"),
		),
	)
}

func resetConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚠️ Yes, wipe everything", "reset_db_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "back_menu"),
		),
	)
}

func backMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Menu", "back_menu"),
		),
	)
}

func formatRemaining(r *domain.Rental, now time.Time) string {
	left := r.Deadline().Sub(now)
	if left <= 0 {
		return "expired"
	}
	h := int(left.Hours())
	m := int(left.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}

func formatRentalCard(r *domain.Rental, now time.Time, loc *time.Location, renewed bool) string {
	payment := "💵 Cash"
	if r.PaymentMethod == domain.PaymentTransfer {
		payment = "💳 Transfer"
	}
	delivery := "🏠 Pickup"
	if r.DeliveryType == domain.DeliveryCourier {
		delivery = "🚚 Delivery"
	}

	text := fmt.Sprintf("🔧 <b>%s</b> — %d/day\n", r.ToolName, r.RentPrice)
	if renewed {
		text += "✅ Rental renewed for 24 hours\n"
	}
	text += fmt.Sprintf("⏰ Remaining: %s (until %s)\n💰 Deposit: %d\n%s\n%s",
		formatRemaining(r, now), r.Deadline().In(loc).Format("15:04"), r.Deposit, payment, delivery)
	if r.DeliveryType == domain.DeliveryCourier && r.Address != "" {
		text += fmt.Sprintf("\n📍 Address: %s", r.Address)
	}
	return text
}
