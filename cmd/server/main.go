package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "bikeshare-backend/internal/api/http"
	"bikeshare-backend/internal/config"
	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/pricing"
	"bikeshare-backend/internal/repository/postgres"
	"bikeshare-backend/internal/security"
	"bikeshare-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Bikeshare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Pricing
	pricer := pricing.NewEngine(pricing.Config{
		PricePer30Min:         cfg.Pricing.PricePer30Min,
		HoursPerUsage:         cfg.Subscription.HoursPerUsage,
		PenaltyThresholdHours: cfg.Pricing.PenaltyThresholdHours,
		PenaltyAmount:         cfg.Pricing.PenaltyAmount,
	})

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	authSvc := service.NewAuthService(store, tokenManager, emailSvc)
	rentalSvc := service.NewRentalService(store, pricer, cfg.Pricing, cfg.Subscription, emailSvc)
	walletSvc := service.NewWalletService(store)
	subscriptionSvc := service.NewSubscriptionService(store, cfg.Subscription, emailSvc)
	reservationSvc := service.NewReservationService(store, cfg.Reservation)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Tokens:        tokenManager,
		Auth:          authSvc,
		Rentals:       rentalSvc,
		Wallets:       walletSvc,
		Subscriptions: subscriptionSvc,
		Reservations:  reservationSvc,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
