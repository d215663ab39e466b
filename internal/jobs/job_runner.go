package jobs

import (
	"context"

	"github.com/google/uuid"

	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/config"
	"toolrent-bot/internal/logger"
	"toolrent-bot/internal/service"
)

// Messenger delivers a plain text message to a chat. The Telegram transport
// implements it; tests substitute a mock.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	reports   service.ReportService
	email     service.EmailService
	messenger Messenger
	clk       *clock.Clock
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	reports service.ReportService,
	email service.EmailService,
	messenger Messenger,
	clk *clock.Clock,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		reports:   reports,
		email:     email,
		messenger: messenger,
		clk:       clk,
		config:    cfg,
	}
}

// Config exposes the configuration to the cron scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	runID := uuid.NewString()
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "run_id", runID, "panic", r)
		}
	}()

	log.Info("Starting job", "run_id", runID)
	jobFunc()
	log.Info("Job completed", "run_id", runID)
}
