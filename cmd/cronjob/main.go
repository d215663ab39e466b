package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"toolrent-bot/internal/bot"
	"toolrent-bot/internal/clock"
	"toolrent-bot/internal/config"
	"toolrent-bot/internal/jobs"
	"toolrent-bot/internal/logger"
	"toolrent-bot/internal/repository/postgres"
	"toolrent-bot/internal/scheduler"
	"toolrent-bot/internal/service"
)

// Standalone job runner: runs the daily report cron without the polling bot,
// or a single job once with -run-once.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g. 'daily-report', 'daily-report-date:2024-01-01')")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting cronjob runner...", "log_level", cfg.Log.Level)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	clk := clock.New(cfg.Location())

	reportSvc := service.NewReportService(store.RentalRepository, store.RevenueRepository)
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.AdminTo)
	ledgerSvc := service.NewLedgerService(store.RevenueRepository, clk)
	catalogSvc := service.NewCatalogService(store.ToolRepository)

	// Reports go out through the same Telegram credential as the bot.
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error("Failed to connect to Telegram", "error", err)
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	messenger := bot.New(api, cfg, ledgerSvc, catalogSvc, reportSvc, store, clk)

	jobRunner := jobs.NewJobRunner(reportSvc, emailSvc, messenger, clk, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner, cfg.Location())
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	const datePrefix = "daily-report-date:"
	switch {
	case jobName == "daily-report":
		jobRunner.SendDailyReports()
	case len(jobName) > len(datePrefix) && jobName[:len(datePrefix)] == datePrefix:
		jobRunner.SendDailyReportsForDate(jobName[len(datePrefix):])
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - daily-report\n")
		fmt.Printf("  - daily-report-date:YYYY-MM-DD\n")
		os.Exit(1)
	}
}
