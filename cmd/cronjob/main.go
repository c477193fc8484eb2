package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentacar-backend/internal/config"
	"rentacar-backend/internal/jobs"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository/postgres"
	"rentacar-backend/internal/scheduler"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'report-overdue-rentals', 'report-stale-booking-requests', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Store.Type != "postgres" {
		log.Fatalf("Cron jobs need the postgres store, got %q", cfg.Store.Type)
	}

	// Initialize logger
	var file *logger.FileOutput
	if cfg.Log.File != "" {
		file = &logger.FileOutput{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format, file)
	logger.Info("Starting Rent-a-Car Cronjob Runner...", "log_level", cfg.Log.Level, "timezone", cfg.Rental.Timezone)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.PingContext(context.Background()); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	clock := utils.NewClock(cfg.Location())
	auditSvc := service.NewAuditService(store.AuditRepository, clock)
	jobRunner := jobs.NewJobRunner(store.Repos(), auditSvc, clock, cfg)

	// Run once mode
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !jobRunner.RunJob(*runOnce) {
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Job execution completed")
		return
	}

	sched, err := scheduler.NewScheduler(jobRunner, cfg.Location())
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Received shutdown signal")
	sched.Stop()
	logger.Info("Cronjob runner stopped")
}
