package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/logger"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if !b.checkAdmin(message) {
		return
	}

	if message.Document != nil {
		b.handleCatalogUpload(ctx, message)
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if b.handleMenuButton(ctx, message, text) {
		return
	}

	sess := b.sessions.get(message.Chat.ID)
	if sess.Step != stepNone {
		b.continueSession(ctx, message, sess, text)
		return
	}

	b.startCheckout(ctx, message, text)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	b.sessions.clear(chatID)

	switch message.Command() {
	case "start":
		b.replyWithKeyboard(chatID,
			"👋 Hi! Send a message like:\n\n<b>Bosch hammer drill 500</b>\n\nwhere the last number is the daily price.",
			mainMenuKeyboard())

	case "list":
		b.sendRentalsList(ctx, chatID, userID)

	case "report_now", "report_today":
		b.sendOwnerReport(ctx, chatID, userID, b.clk.Today())

	case "report":
		date := strings.TrimSpace(message.CommandArguments())
		if !clock.ValidDate(date) {
			b.reply(chatID, "Usage: /report YYYY-MM-DD")
			return
		}
		b.sendOwnerReport(ctx, chatID, userID, date)

	case "income_today":
		b.sendIncome(ctx, chatID, userID, b.clk.Today())

	case "income":
		date := strings.TrimSpace(message.CommandArguments())
		if !clock.ValidDate(date) {
			b.reply(chatID, "Usage: /income YYYY-MM-DD")
			return
		}
		b.sendIncome(ctx, chatID, userID, date)

	case "setprice":
		b.handleSetPrice(ctx, message)

	case "import":
		b.reply(chatID, "Send a CSV file (UTF-8) right here and the catalog will be imported.\nFormat: <code>Name,Price</code> (two columns).")

	case "reset":
		b.replyWithKeyboard(chatID, "⚠️ This wipes ALL rentals, revenue and the catalog. Continue?", resetConfirmKeyboard())

	case "expire_last":
		b.handleExpireLast(ctx, chatID, userID)

	default:
		b.reply(chatID, "Unknown command.")
	}
}

// handleMenuButton routes the persistent keyboard buttons. A menu tap always
// escapes whatever conversation was in progress.
func (b *Bot) handleMenuButton(ctx context.Context, message *tgbotapi.Message, text string) bool {
	chatID := message.Chat.ID
	userID := message.From.ID

	switch text {
	case btnRentals:
		b.sessions.clear(chatID)
		b.sendRentalsList(ctx, chatID, userID)
	case btnReportNow:
		b.sessions.clear(chatID)
		b.sendOwnerReport(ctx, chatID, userID, b.clk.Today())
	case btnReportByDate:
		b.sessions.put(chatID, session{Step: stepReportDate})
		b.reply(chatID, "Enter a date (YYYY-MM-DD):")
	case btnCatalog:
		b.sendCatalogList(ctx, chatID)
	case btnImportCSV:
		b.sessions.clear(chatID)
		b.replyWithKeyboard(chatID,
			"Send a CSV file (UTF-8) right here and the catalog will be imported.\nFormat: <code>Name,Price</code> (two columns).",
			backMenuKeyboard())
	case btnSetPrice:
		b.sessions.clear(chatID)
		b.reply(chatID, "Use: /setprice &lt;name&gt; &lt;price&gt;\nExample: /setprice Bosch hammer drill 500")
	default:
		return false
	}
	return true
}

// continueSession applies a text input to a pending conversation step.
func (b *Bot) continueSession(ctx context.Context, message *tgbotapi.Message, sess session, text string) {
	chatID := message.Chat.ID
	userID := message.From.ID

	switch sess.Step {
	case stepDeposit:
		deposit, err := strconv.ParseInt(text, 10, 64)
		if err != nil || deposit < 0 {
			b.reply(chatID, "Enter a valid deposit amount (number ≥ 0)")
			return
		}
		sess.Deposit = deposit
		sess.Step = stepPayment
		b.sessions.put(chatID, sess)
		b.replyWithKeyboard(chatID, "💳 Payment method:", paymentKeyboard())

	case stepAddress:
		if text == "" {
			b.reply(chatID, "Enter the delivery address")
			return
		}
		sess.Address = text
		b.finishRental(ctx, userID, chatID, sess, func(t string) { b.reply(chatID, t) })

	case stepRenaming:
		if text == "" {
			b.reply(chatID, "The name must not be empty")
			return
		}
		if err := b.catalog.Rename(ctx, sess.ToolID, text); err != nil {
			b.reply(chatID, "❌ "+err.Error())
			return
		}
		b.showToolMenu(ctx, chatID, sess.ToolID, "✅ Name updated")

	case stepPricing:
		price, err := strconv.ParseInt(text, 10, 64)
		if err != nil || price <= 0 {
			b.reply(chatID, "The price must be a positive number")
			return
		}
		if err := b.catalog.Reprice(ctx, sess.ToolID, price); err != nil {
			b.reply(chatID, "❌ "+err.Error())
			return
		}
		b.showToolMenu(ctx, chatID, sess.ToolID, "✅ Price updated")

	case stepReportDate:
		if !clock.ValidDate(text) {
			b.reply(chatID, "Format: YYYY-MM-DD")
			return
		}
		b.sessions.clear(chatID)
		b.sendOwnerReport(ctx, chatID, userID, text)

	default:
		b.sessions.clear(chatID)
	}
}

// startCheckout parses "<name> <price>" free text (price optional when the
// catalog knows the tool) and opens the rental creation conversation.
func (b *Bot) startCheckout(ctx context.Context, message *tgbotapi.Message, text string) {
	chatID := message.Chat.ID

	name, price, ok := parseToolAndPrice(text)
	if !ok {
		tool, err := b.catalog.GetByName(ctx, text)
		if err != nil {
			b.reply(chatID, "Send: <b>tool name price</b>, e.g. <b>Bosch hammer drill 500</b>")
			return
		}
		name, price = tool.Name, tool.Price
	}

	b.sessions.put(chatID, session{
		Step:          stepDeposit,
		ToolName:      name,
		RentPrice:     price,
		PaymentMethod: domain.PaymentCash,
		DeliveryType:  domain.DeliveryPickup,
	})
	b.reply(chatID, fmt.Sprintf("🔧 <b>%s</b> — %d/day\n💰 Enter the deposit amount (0 for none):", name, price))
}

func (b *Bot) handleSetPrice(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	name, price, ok := parseToolAndPrice(message.CommandArguments())
	if !ok {
		b.reply(chatID, "Usage: /setprice &lt;name&gt; &lt;price&gt;")
		return
	}
	tool, err := b.catalog.SetPrice(ctx, name, price)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Price saved: %s — %d", tool.Name, tool.Price))
}

func (b *Bot) handleExpireLast(ctx context.Context, chatID, userID int64) {
	rentals, err := b.rentals.ListActive(ctx, userID)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	if len(rentals) == 0 {
		b.reply(chatID, "✅ No active rentals")
		return
	}
	if err := b.expirer.TriggerNow(ctx, rentals[0].ID); err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	b.reply(chatID, "⏱️ Test notification sent")
}

// handleCatalogUpload downloads an attached CSV document and imports it.
func (b *Bot) handleCatalogUpload(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	url, err := b.api.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		b.reply(chatID, "❌ Failed to fetch the file: "+err.Error())
		return
	}
	resp, err := http.Get(url)
	if err != nil {
		b.reply(chatID, "❌ Failed to download the file: "+err.Error())
		return
	}
	defer resp.Body.Close()

	count, err := b.catalog.ImportCSV(ctx, resp.Body)
	if err != nil {
		logger.Error("Catalog import failed", "error", err)
		b.reply(chatID, fmt.Sprintf("⚠️ Imported %d items, then failed: %s", count, err.Error()))
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Catalog imported: %d items", count))
}

func (b *Bot) sendRentalsList(ctx context.Context, chatID, userID int64) {
	rentals, err := b.rentals.ListActive(ctx, userID)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	if len(rentals) == 0 {
		b.reply(chatID, "✅ All tools returned. No active rentals.")
		return
	}
	b.replyWithKeyboard(chatID, "📋 Active rentals (time remaining):", rentalsListKeyboard(rentals, b.clk.Now()))
}

func (b *Bot) sendOwnerReport(ctx context.Context, chatID, userID int64, date string) {
	text, err := b.reports.BuildForOwner(ctx, date, userID)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	b.reply(chatID, text)
}

func (b *Bot) sendIncome(ctx context.Context, chatID, userID int64, date string) {
	sum, err := b.ledger.SumForDate(ctx, date, userID)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	b.reply(chatID, fmt.Sprintf("💰 Income for %s: %d", date, sum))
}

func (b *Bot) sendCatalogList(ctx context.Context, chatID int64) {
	tools, err := b.catalog.List(ctx, 50)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	if len(tools) == 0 {
		b.sessions.clear(chatID)
		b.reply(chatID, "The catalog is empty. Import a CSV or set prices with /setprice.")
		return
	}
	b.sessions.put(chatID, session{Step: stepChoosingTool})
	b.replyWithKeyboard(chatID, "📚 Pick a tool to edit:", toolsListKeyboard(tools))
}

func (b *Bot) showToolMenu(ctx context.Context, chatID, toolID int64, prefix string) {
	tool, err := b.catalog.GetByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.reply(chatID, "Tool not found")
			return
		}
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	b.sessions.put(chatID, session{Step: stepToolMenu, ToolID: toolID})
	text := fmt.Sprintf("🔧 %s — %d", tool.Name, tool.Price)
	if prefix != "" {
		text = prefix + "\n" + text
	}
	b.replyWithKeyboard(chatID, text, toolMenuKeyboard(toolID))
}

// parseToolAndPrice splits "<name> <price>" on the last space. The name may
// itself contain spaces.
func parseToolAndPrice(text string) (string, int64, bool) {
	text = strings.TrimSpace(text)
	idx := strings.LastIndex(text, " ")
	if idx < 0 {
		return "", 0, false
	}
	name := strings.TrimSpace(text[:idx])
	price, err := strconv.ParseInt(strings.TrimSpace(text[idx+1:]), 10, 64)
	if name == "" || err != nil || price <= 0 {
		return "", 0, false
	}
	return name, price, true
}
