package scheduler

import (
	"context"
	"sync"
	"time"

	"toolrent-bot/internal/domain"
	"toolrent-bot/internal/logger"
	"toolrent-bot/internal/repository"
)

// DefaultFloor is the minimum delay before an expiration job may fire. It
// prevents a flood of immediate notifications when many already-expired
// rentals are rescheduled on process restart.
const DefaultFloor = time.Minute

// Notifier delivers the expiration prompt to the rental's operator.
type Notifier interface {
	NotifyExpired(ctx context.Context, userID, rentalID int64, toolName string) error
}

// ExpirationScheduler keeps one pending one-shot timer per active rental.
// Timers are keyed by rental id, so scheduling for the same rental replaces
// the prior timer instead of duplicating it. A rental's job is in one of
// three states: absent, scheduled (timer pending) or fired (timer gone).
type ExpirationScheduler struct {
	mu       sync.Mutex
	timers   map[int64]*time.Timer
	rentals  repository.RentalRepository
	notifier Notifier
	floor    time.Duration
	now      func() time.Time
}

func NewExpirationScheduler(rentals repository.RentalRepository, notifier Notifier) *ExpirationScheduler {
	if notifier == nil {
		panic("scheduler: nil notifier")
	}
	return &ExpirationScheduler{
		timers:   make(map[int64]*time.Timer),
		rentals:  rentals,
		notifier: notifier,
		floor:    DefaultFloor,
		now:      time.Now,
	}
}

// FireAt computes the instant the rental's expiration job fires: 24h after
// the window anchor, floored at now plus the minimum delay.
func (s *ExpirationScheduler) FireAt(r *domain.Rental) time.Time {
	deadline := r.Deadline()
	earliest := s.now().Add(s.floor)
	if deadline.Before(earliest) {
		return earliest
	}
	return deadline
}

// Schedule registers the expiration job for the rental, replacing any timer
// already pending under the same rental id.
func (s *ExpirationScheduler) Schedule(r *domain.Rental) {
	runAt := s.FireAt(r)
	delay := runAt.Sub(s.now())

	rentalID, userID, toolName := r.ID, r.UserID, r.ToolName

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.timers[rentalID]; ok {
		prev.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.fire(t, rentalID, userID, toolName)
	})
	s.timers[rentalID] = t

	logger.Info("Scheduled expiration", "rental_id", rentalID, "fire_at", runAt.Format(time.RFC3339))
}

// fire runs in the timer goroutine. A timer superseded by a newer Schedule
// call for the same rental must not notify, so identity is checked under the
// lock before the entry is removed.
func (s *ExpirationScheduler) fire(t *time.Timer, rentalID, userID int64, toolName string) {
	s.mu.Lock()
	current, ok := s.timers[rentalID]
	if !ok || current != t {
		s.mu.Unlock()
		return
	}
	delete(s.timers, rentalID)
	s.mu.Unlock()

	// Delivery is best effort: failures are logged and swallowed, the
	// rental state is untouched either way.
	if err := s.notifier.NotifyExpired(context.Background(), userID, rentalID, toolName); err != nil {
		logger.Error("Failed to send expiration notification", "rental_id", rentalID, "user_id", userID, "error", err)
	}
}

// Cancel drops the pending timer for the rental, if any. Called on close so
// a stale "tool expired" prompt does not arrive after return.
func (s *ExpirationScheduler) Cancel(rentalID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[rentalID]; ok {
		t.Stop()
		delete(s.timers, rentalID)
	}
}

// RescheduleAllActive re-reads every active rental and schedules its
// expiration job. Run once on startup so no active rental is left without a
// timer after a restart.
func (s *ExpirationScheduler) RescheduleAllActive(ctx context.Context) error {
	rentals, err := s.rentals.ListActive(ctx, 0)
	if err != nil {
		return err
	}
	for i := range rentals {
		s.Schedule(&rentals[i])
	}
	logger.Info("Rescheduled expiration jobs for active rentals", "count", len(rentals))
	return nil
}

// TriggerNow fires the rental's expiration notification immediately without
// touching the pending timer. Used by the operator test command.
func (s *ExpirationScheduler) TriggerNow(ctx context.Context, rentalID int64) error {
	r, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if err := s.notifier.NotifyExpired(ctx, r.UserID, r.ID, r.ToolName); err != nil {
		logger.Error("Failed to send expiration notification", "rental_id", r.ID, "user_id", r.UserID, "error", err)
	}
	return nil
}

// Pending reports how many expiration timers are currently scheduled.
func (s *ExpirationScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer.
func (s *ExpirationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
