package bot

import (
	"context"
	"sync"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/service"
)

// step identifies where a conversation stands. The rental creation flow walks
// deposit -> payment -> delivery -> address; the catalog editor and the
// report-by-date prompt reuse the same session mechanism.
type step int

const (
	stepNone step = iota
	stepDeposit
	stepPayment
	stepDelivery
	stepAddress
	stepChoosingTool
	stepToolMenu
	stepRenaming
	stepPricing
	stepReportDate
)

// session is the explicit conversation state machine value, keyed by chat id.
// The transport loads it before each turn, applies the input and stores the
// next step or clears it on a terminal action.
type session struct {
	Step          step
	ToolName      string
	RentPrice     int64
	Deposit       int64
	PaymentMethod domain.PaymentMethod
	DeliveryType  domain.DeliveryType
	Address       string
	ToolID        int64
}

type sessionStore struct {
	mu sync.Mutex
	m  map[int64]session
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[int64]session)}
}

func (s *sessionStore) get(chatID int64) session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[chatID]
}

func (s *sessionStore) put(chatID int64, sess session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = sess
}

func (s *sessionStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}

// finishRental turns a completed session into a checkout. respond is the
// shared reply capability, so the flow works the same whether the final turn
// arrived as a text message or a button press.
func (b *Bot) finishRental(ctx context.Context, userID, chatID int64, sess session, respond func(text string)) {
	defer b.sessions.clear(chatID)

	if sess.ToolName == "" || sess.RentPrice <= 0 {
		respond("❌ Rental data lost, please start over.")
		return
	}

	rental, err := b.rentals.Create(ctx, service.CreateRentalInput{
		ToolName:      sess.ToolName,
		RentPrice:     sess.RentPrice,
		UserID:        userID,
		Deposit:       sess.Deposit,
		PaymentMethod: sess.PaymentMethod,
		DeliveryType:  sess.DeliveryType,
		Address:       sess.Address,
	})
	if err != nil {
		respond("❌ Failed to create the rental: " + err.Error())
		return
	}

	respond("✅ <b>Rental created!</b>\n\n" + formatRentalCard(rental, b.clk.Now(), b.clk.Location(), false))
}
