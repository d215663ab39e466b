package jobs

import (
	"context"
	"fmt"

	"toolrent-bot/internal/logger"
)

// SendDailyReports runs once per day at the configured local hour. Each
// operator with active rentals gets their own summary; the admin chat gets
// the global revenue total. Sends are best effort and never deduplicated:
// re-running the job sends the reports again.
func (jr *JobRunner) SendDailyReports() {
	jr.runWithRecovery("SendDailyReports", func() {
		jr.sendReportsForDate(context.Background(), jr.clk.Today())
	})
}

// SendDailyReportsForDate runs the same aggregation for an explicit past
// date, for manual execution from the cronjob binary.
func (jr *JobRunner) SendDailyReportsForDate(date string) {
	jr.runWithRecovery("SendDailyReportsForDate", func() {
		jr.sendReportsForDate(context.Background(), date)
	})
}

func (jr *JobRunner) sendReportsForDate(ctx context.Context, date string) {
	owners, err := jr.reports.ActiveOwners(ctx)
	if err != nil {
		logger.Error("Failed to list report recipients", "error", err)
		return
	}

	for _, owner := range owners {
		text, err := jr.reports.BuildForOwner(ctx, date, owner)
		if err != nil {
			logger.Error("Failed to build daily report", "user_id", owner, "error", err)
			continue
		}
		if err := jr.messenger.SendMessage(ctx, owner, text); err != nil {
			logger.Error("Failed to send daily report", "user_id", owner, "error", err)
		}
	}

	jr.sendAdminSummary(ctx, date)
}

func (jr *JobRunner) sendAdminSummary(ctx context.Context, date string) {
	adminChat := jr.config.Report.AdminChatID
	if adminChat == 0 {
		return
	}

	summary, err := jr.reports.BuildAdminSummary(ctx, date)
	if err != nil {
		logger.Error("Failed to build admin summary", "error", err)
		return
	}
	if err := jr.messenger.SendMessage(ctx, adminChat, summary); err != nil {
		logger.Error("Failed to send admin summary", "chat_id", adminChat, "error", err)
	}
	if err := jr.email.SendAdminSummary(ctx, fmt.Sprintf("Daily revenue report %s", date), summary); err != nil {
		logger.Error("Failed to email admin summary", "error", err)
	}
}
