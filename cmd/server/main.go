package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	grpcapi "rentacar-backend/internal/api/grpc"
	httpapi "rentacar-backend/internal/api/http"
	"rentacar-backend/internal/config"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/repository/memory"
	"rentacar-backend/internal/repository/postgres"
	"rentacar-backend/internal/security"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

// backend is what the services need from a store implementation.
type backend struct {
	tx     repository.Transactor
	repos  repository.Repos
	audit  repository.AuditRepository
	users  repository.UserRepository
	pinger grpcapi.Pinger
	close  func() error
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	migrate := flag.Bool("migrate", false, "Apply the database schema before serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format, logFile(cfg))
	logger.Info("Starting Rent-a-Car Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_address", cfg.GetHealthAddress())
	logger.Info("Rental configuration", "timezone", cfg.Rental.Timezone, "store", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, *migrate || cfg.Database.Migrate)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer be.close()

	clock := utils.NewClock(cfg.Location())

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTokenTTL())

	// Initialize Services
	emailSvc := newEmailService(cfg)
	auditSvc := service.NewAuditService(be.audit, clock)
	vehicleSvc := service.NewVehicleService(be.tx, be.repos, auditSvc, clock)
	availabilitySvc := service.NewAvailabilityService(be.repos)
	bookingSvc := service.NewBookingService(be.tx, be.repos, vehicleSvc, auditSvc, emailSvc, clock)
	rentalSvc := service.NewRentalService(be.tx, be.repos, auditSvc, emailSvc, clock)
	customerSvc := service.NewCustomerService(be.tx, be.repos, auditSvc)
	authSvc := service.NewAuthService(be.tx, be.users, tokenManager, auditSvc)

	if cfg.Bootstrap.AdminUsername != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
			logger.Error("Failed to bootstrap admin", "error", err)
			log.Fatalf("Failed to bootstrap admin: %v", err)
		}
	}

	// Rate limiting
	var rateLimit mux.MiddlewareFunc
	if cfg.RateLimit.Enabled {
		rateLimit, err = newRateLimit(ctx, cfg)
		if err != nil {
			logger.Error("Failed to set up rate limiting", "error", err)
			log.Fatalf("Failed to set up rate limiting: %v", err)
		}
	}

	// Initialize HTTP handlers
	loc := cfg.Location()
	var httpPinger httpapi.Pinger
	if be.pinger != nil {
		httpPinger = be.pinger
	}
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:      httpapi.NewAuthHandler(authSvc),
		Customers: httpapi.NewCustomerHandler(customerSvc, bookingSvc, loc),
		Vehicles:  httpapi.NewVehicleHandler(vehicleSvc, availabilitySvc, bookingSvc, loc),
		Bookings:  httpapi.NewBookingHandler(bookingSvc, rentalSvc, loc),
		Rentals:   httpapi.NewRentalHandler(rentalSvc),
		Audit:     httpapi.NewAuditHandler(auditSvc),
		Health:    httpapi.NewHealthHandler(httpPinger),
	}, httpapi.NewAuthMiddleware(tokenManager), rateLimit)

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC health server
	healthServer := grpcapi.NewHealthServer(be.pinger)
	lis, err := net.Listen("tcp", cfg.GetHealthAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetHealthAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	go healthServer.Monitor(ctx, 15*time.Second)
	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetHealthAddress())
		if err := healthServer.Server().Serve(lis); err != nil {
			logger.Error("gRPC health server error", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	healthServer.Shutdown()
	logger.Info("Server stopped")
}

func logFile(cfg *config.Config) *logger.FileOutput {
	if cfg.Log.File == "" {
		return nil
	}
	return &logger.FileOutput{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}
}

func openBackend(ctx context.Context, cfg *config.Config, migrate bool) (*backend, error) {
	if cfg.Store.Type == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &backend{
			tx:    store,
			repos: store.Repos(),
			audit: store.AuditRepository,
			users: store.UserRepository,
			close: func() error { return nil },
		}, nil
	}

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConns)

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if migrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Database schema applied")
	}

	store := postgres.NewStore(db)
	return &backend{
		tx:     store,
		repos:  store.Repos(),
		audit:  store.AuditRepository,
		users:  store.UserRepository,
		pinger: store,
		close:  db.Close,
	}, nil
}

func newEmailService(cfg *config.Config) service.EmailService {
	switch cfg.EmailProvider() {
	case "sendgrid":
		logger.Info("Email via SendGrid", "from", cfg.SendGrid.FromEmail)
		return service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	case "smtp":
		logger.Info("Email via SMTP", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		return service.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	default:
		logger.Warn("No email provider configured; customer emails are only logged")
		return service.NewNoopEmailService()
	}
}

func newRateLimit(ctx context.Context, cfg *config.Config) (mux.MiddlewareFunc, error) {
	rate, err := httpapi.ParseCustomRate(cfg.RateLimit.Rate)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RateLimit.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Rate limiting backed by redis", "addr", opt.Addr, "rate", cfg.RateLimit.Rate)
	} else {
		logger.Info("Rate limiting in process", "rate", cfg.RateLimit.Rate)
	}

	store, err := httpapi.NewRateLimitStore(rdb, rate.Period)
	if err != nil {
		return nil, err
	}
	return httpapi.RateLimit(store, rate), nil
}
