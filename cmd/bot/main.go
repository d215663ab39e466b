package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
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

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting tool rent bot...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Timezone configuration", "timezone", cfg.Timezone)

	// Initialize Database
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Repositories
	store := postgres.NewStore(db)
	if err := store.InitSchema(ctx); err != nil {
		logger.Error("Failed to initialize schema", "error", err)
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	clk := clock.New(cfg.Location())

	// Initialize Services
	ledgerSvc := service.NewLedgerService(store.RevenueRepository, clk)
	catalogSvc := service.NewCatalogService(store.ToolRepository)
	reportSvc := service.NewReportService(store.RentalRepository, store.RevenueRepository)
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From, cfg.Email.AdminTo)

	// Connect to Telegram. A missing or rejected token aborts startup.
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error("Failed to connect to Telegram", "error", err)
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	logger.Info("Telegram connection established", "username", api.Self.UserName)

	// The bot is the notifier for expiration jobs; the rental service needs
	// the scheduler for create/renew/close transitions.
	tgBot := bot.New(api, cfg, ledgerSvc, catalogSvc, reportSvc, store, clk)
	expirer := scheduler.NewExpirationScheduler(store.RentalRepository, tgBot)
	defer expirer.Stop()
	tgBot.SetExpirer(expirer)

	rentalSvc := service.NewRentalService(store.RentalRepository, store.RevenueRepository, store.ToolRepository, expirer, clk)
	tgBot.SetRentals(rentalSvc)

	// Every active rental gets its timer back after a restart.
	if err := expirer.RescheduleAllActive(ctx); err != nil {
		logger.Error("Failed to reschedule active rentals", "error", err)
		log.Fatalf("Failed to reschedule active rentals: %v", err)
	}

	// Import the catalog on startup when a file is configured and present
	if path := cfg.Catalog.ImportPath; path != "" {
		if f, err := os.Open(path); err == nil {
			count, err := catalogSvc.ImportCSV(ctx, f)
			f.Close()
			if err != nil {
				logger.Error("Failed to import catalog on startup", "path", path, "error", err)
			} else {
				logger.Info("Imported catalog on startup", "path", path, "count", count)
			}
		}
	}

	// Initialize the daily report cron
	jobRunner := jobs.NewJobRunner(reportSvc, emailSvc, tgBot, clk, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner, cfg.Location())
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Health endpoint
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	go func() {
		addr := cfg.GetHealthAddress()
		logger.Info("Health endpoint listening", "address", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			logger.Error("Health endpoint error", "error", err)
		}
	}()

	// Poll until interrupted
	tgBot.Run(ctx)
	logger.Info("Shutdown complete. Goodbye!")
}
