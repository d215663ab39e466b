package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/config"
	"toolrent-bot/internal/jobs"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) BuildForOwner(ctx context.Context, date string, userID int64) (string, error) {
	args := m.Called(ctx, date, userID)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) BuildAdminSummary(ctx context.Context, date string) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) ActiveOwners(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAdminSummary(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func testConfig(adminChatID int64) *config.Config {
	cfg := &config.Config{}
	cfg.Report.AdminChatID = adminChatID
	return cfg
}

func TestJobRunner_SendDailyReports(t *testing.T) {
	now := time.Date(2024, 1, 15, 21, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(time.UTC, now)

	t.Run("SendsToEachOwnerAndAdmin", func(t *testing.T) {
		reports := new(MockReportService)
		email := new(MockEmailService)
		messenger := new(MockMessenger)
		jr := jobs.NewJobRunner(reports, email, messenger, clk, testConfig(777))

		reports.On("ActiveOwners", mock.Anything).Return([]int64{42, 99}, nil)
		reports.On("BuildForOwner", mock.Anything, "2024-01-15", int64(42)).Return("report for 42", nil)
		reports.On("BuildForOwner", mock.Anything, "2024-01-15", int64(99)).Return("report for 99", nil)
		reports.On("BuildAdminSummary", mock.Anything, "2024-01-15").Return("admin summary", nil)
		messenger.On("SendMessage", mock.Anything, int64(42), "report for 42").Return(nil)
		messenger.On("SendMessage", mock.Anything, int64(99), "report for 99").Return(nil)
		messenger.On("SendMessage", mock.Anything, int64(777), "admin summary").Return(nil)
		email.On("SendAdminSummary", mock.Anything, "Daily revenue report 2024-01-15", "admin summary").Return(nil)

		jr.SendDailyReports()

		reports.AssertExpectations(t)
		messenger.AssertExpectations(t)
		email.AssertExpectations(t)
	})

	t.Run("SkipsAdminSummaryWhenUnconfigured", func(t *testing.T) {
		reports := new(MockReportService)
		email := new(MockEmailService)
		messenger := new(MockMessenger)
		jr := jobs.NewJobRunner(reports, email, messenger, clk, testConfig(0))

		reports.On("ActiveOwners", mock.Anything).Return([]int64{}, nil)

		jr.SendDailyReports()

		reports.AssertNotCalled(t, "BuildAdminSummary")
		messenger.AssertNotCalled(t, "SendMessage")
		email.AssertNotCalled(t, "SendAdminSummary")
	})

	t.Run("OneFailedSendDoesNotStopTheRest", func(t *testing.T) {
		reports := new(MockReportService)
		email := new(MockEmailService)
		messenger := new(MockMessenger)
		jr := jobs.NewJobRunner(reports, email, messenger, clk, testConfig(0))

		reports.On("ActiveOwners", mock.Anything).Return([]int64{42, 99}, nil)
		reports.On("BuildForOwner", mock.Anything, "2024-01-15", int64(42)).Return("report for 42", nil)
		reports.On("BuildForOwner", mock.Anything, "2024-01-15", int64(99)).Return("report for 99", nil)
		messenger.On("SendMessage", mock.Anything, int64(42), "report for 42").Return(assert.AnError)
		messenger.On("SendMessage", mock.Anything, int64(99), "report for 99").Return(nil)

		jr.SendDailyReports()

		messenger.AssertExpectations(t)
	})
}

func TestJobRunner_SendDailyReportsForDate(t *testing.T) {
	now := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(time.UTC, now)

	reports := new(MockReportService)
	email := new(MockEmailService)
	messenger := new(MockMessenger)
	jr := jobs.NewJobRunner(reports, email, messenger, clk, testConfig(0))

	// Yesterday's date is passed explicitly, not derived from the clock.
	reports.On("ActiveOwners", mock.Anything).Return([]int64{42}, nil)
	reports.On("BuildForOwner", mock.Anything, "2024-01-15", int64(42)).Return("late report", nil)
	messenger.On("SendMessage", mock.Anything, int64(42), "late report").Return(nil)

	jr.SendDailyReportsForDate("2024-01-15")

	reports.AssertExpectations(t)
	messenger.AssertExpectations(t)
}
