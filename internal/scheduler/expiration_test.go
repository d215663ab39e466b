package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toolrent-bot/internal/domain"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []int64
	fired chan int64
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{fired: make(chan int64, 16)}
}

func (n *recordingNotifier) NotifyExpired(ctx context.Context, userID, rentalID int64, toolName string) error {
	n.mu.Lock()
	n.calls = append(n.calls, rentalID)
	n.mu.Unlock()
	n.fired <- rentalID
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type stubRentalRepo struct {
	active []domain.Rental
	byID   map[int64]*domain.Rental
}

func (s *stubRentalRepo) Create(ctx context.Context, r *domain.Rental) error { return nil }

func (s *stubRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRentalRepo) UpdateWindow(ctx context.Context, id, startTime int64) error { return nil }
func (s *stubRentalRepo) Close(ctx context.Context, id int64) error                   { return nil }

func (s *stubRentalRepo) ListActive(ctx context.Context, userID int64) ([]domain.Rental, error) {
	return s.active, nil
}

func newTestScheduler(repo *stubRentalRepo, notifier Notifier, at time.Time) *ExpirationScheduler {
	s := NewExpirationScheduler(repo, notifier)
	s.now = func() time.Time { return at }
	return s
}

func TestExpirationScheduler_FireAt(t *testing.T) {
	now := time.Unix(1000000, 0)
	s := newTestScheduler(&stubRentalRepo{}, newRecordingNotifier(), now)
	defer s.Stop()

	t.Run("future deadline fires at the deadline", func(t *testing.T) {
		r := &domain.Rental{ID: 1, StartTime: now.Unix()}
		assert.Equal(t, now.Add(24*time.Hour), s.FireAt(r))
	})

	t.Run("past deadline is floored at now plus one minute", func(t *testing.T) {
		r := &domain.Rental{ID: 2, StartTime: now.Add(-48 * time.Hour).Unix()}
		assert.Equal(t, now.Add(time.Minute), s.FireAt(r))
	})

	t.Run("deadline inside the floor window is pushed out", func(t *testing.T) {
		r := &domain.Rental{ID: 3, StartTime: now.Add(30*time.Second - 24*time.Hour).Unix()}
		assert.Equal(t, now.Add(time.Minute), s.FireAt(r))
	})
}

func TestExpirationScheduler_ScheduleReplacesTimer(t *testing.T) {
	now := time.Unix(1000000, 0)
	s := newTestScheduler(&stubRentalRepo{}, newRecordingNotifier(), now)
	defer s.Stop()

	r := &domain.Rental{ID: 7, UserID: 42, ToolName: "drill", StartTime: now.Unix()}
	s.Schedule(r)
	assert.Equal(t, 1, s.Pending())

	// Renewing moves the window; the same rental still holds one timer.
	r.StartTime = now.Add(24 * time.Hour).Unix()
	s.Schedule(r)
	assert.Equal(t, 1, s.Pending())
}

func TestExpirationScheduler_Cancel(t *testing.T) {
	now := time.Unix(1000000, 0)
	s := newTestScheduler(&stubRentalRepo{}, newRecordingNotifier(), now)
	defer s.Stop()

	s.Schedule(&domain.Rental{ID: 5, StartTime: now.Unix()})
	assert.Equal(t, 1, s.Pending())

	s.Cancel(5)
	assert.Equal(t, 0, s.Pending())

	// Cancelling an unknown rental is a no-op
	s.Cancel(99)
	assert.Equal(t, 0, s.Pending())
}

func TestExpirationScheduler_FireDeliversOnce(t *testing.T) {
	notifier := newRecordingNotifier()
	s := NewExpirationScheduler(&stubRentalRepo{}, notifier)
	s.floor = 10 * time.Millisecond
	defer s.Stop()

	// Already expired, so the timer fires after the floor delay.
	r := &domain.Rental{ID: 11, UserID: 42, ToolName: "drill", StartTime: time.Now().Add(-48 * time.Hour).Unix()}
	s.Schedule(r)

	select {
	case id := <-notifier.fired:
		assert.Equal(t, int64(11), id)
	case <-time.After(2 * time.Second):
		t.Fatal("expiration notification never fired")
	}

	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 1, notifier.count())
}

func TestExpirationScheduler_SupersededTimerDoesNotNotify(t *testing.T) {
	now := time.Unix(1000000, 0)
	notifier := newRecordingNotifier()
	s := newTestScheduler(&stubRentalRepo{}, notifier, now)
	defer s.Stop()

	s.Schedule(&domain.Rental{ID: 3, UserID: 42, ToolName: "saw", StartTime: now.Unix()})

	// A stale timer that lost the identity check must not deliver or touch
	// the pending entry.
	stale := time.NewTimer(time.Hour)
	stale.Stop()
	s.fire(stale, 3, 42, "saw")

	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 0, notifier.count())
}

func TestExpirationScheduler_RescheduleAllActive(t *testing.T) {
	now := time.Unix(1000000, 0)
	repo := &stubRentalRepo{active: []domain.Rental{
		{ID: 1, UserID: 10, ToolName: "drill", StartTime: now.Unix()},
		{ID: 2, UserID: 10, ToolName: "saw", StartTime: now.Add(-time.Hour).Unix()},
		{ID: 3, UserID: 20, ToolName: "sander", StartTime: now.Add(-48 * time.Hour).Unix()},
	}}
	s := newTestScheduler(repo, newRecordingNotifier(), now)
	defer s.Stop()

	err := s.RescheduleAllActive(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, s.Pending())
}

func TestExpirationScheduler_TriggerNow(t *testing.T) {
	now := time.Unix(1000000, 0)
	notifier := newRecordingNotifier()
	repo := &stubRentalRepo{byID: map[int64]*domain.Rental{
		8: {ID: 8, UserID: 42, ToolName: "drill", StartTime: now.Unix()},
	}}
	s := newTestScheduler(repo, notifier, now)
	defer s.Stop()

	err := s.TriggerNow(context.Background(), 8)
	assert.NoError(t, err)
	assert.Equal(t, 1, notifier.count())

	err = s.TriggerNow(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
