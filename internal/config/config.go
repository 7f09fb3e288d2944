package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	Email        EmailConfig        `yaml:"email"`
	Log          LogConfig          `yaml:"log"`
	Pricing      PricingConfig      `yaml:"pricing"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Reservation  ReservationConfig  `yaml:"reservation"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PricingConfig contains the rental pricing constants. All amounts are
// integer minor units.
type PricingConfig struct {
	PricePer30Min          int64   `yaml:"price_per_30_min"`
	MinWalletBalanceToRent int64   `yaml:"min_wallet_balance_to_rent"`
	PenaltyThresholdHours  float64 `yaml:"penalty_threshold_hours"`
	PenaltyAmount          int64   `yaml:"penalty_amount"`
}

// SubscriptionConfig contains subscription coverage and lifecycle settings
type SubscriptionConfig struct {
	HoursPerUsage    int `yaml:"hours_per_usage"`
	ExpiryWindowDays int `yaml:"expiry_window_days"`
	AutoActivateDays int `yaml:"auto_activate_days"`
}

// ReservationConfig contains reservation hold settings
type ReservationConfig struct {
	HoldMinutes   int   `yaml:"hold_minutes"`
	PrepaidAmount int64 `yaml:"prepaid_amount"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ActivatePendingSubscriptions string `yaml:"activate_pending_subscriptions"`
	ExpireSubscriptions          string `yaml:"expire_subscriptions"`
	ExpireReservationHolds       string `yaml:"expire_reservation_holds"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Pricing
	if val := os.Getenv("PRICE_PER_30_MIN"); val != "" {
		fmt.Sscanf(val, "%d", &c.Pricing.PricePer30Min)
	}
	if val := os.Getenv("MIN_WALLET_BALANCE_TO_RENT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Pricing.MinWalletBalanceToRent)
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry <= 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7
	}

	// Pricing validation
	if c.Pricing.PricePer30Min <= 0 {
		return fmt.Errorf("price_per_30_min must be positive")
	}
	if c.Pricing.MinWalletBalanceToRent < 0 {
		return fmt.Errorf("min_wallet_balance_to_rent cannot be negative")
	}
	if c.Pricing.PenaltyThresholdHours == 0 {
		c.Pricing.PenaltyThresholdHours = 24
	}

	// Subscription defaults
	if c.Subscription.HoursPerUsage <= 0 {
		c.Subscription.HoursPerUsage = 1
	}
	if c.Subscription.ExpiryWindowDays <= 0 {
		c.Subscription.ExpiryWindowDays = 30
	}
	if c.Subscription.AutoActivateDays <= 0 {
		c.Subscription.AutoActivateDays = 7
	}

	// Reservation defaults
	if c.Reservation.HoldMinutes <= 0 {
		c.Reservation.HoldMinutes = 30
	}
	if c.Reservation.PrepaidAmount < 0 {
		return fmt.Errorf("reservation prepaid_amount cannot be negative")
	}

	// Scheduler defaults
	if c.Scheduler.ActivatePendingSubscriptions == "" {
		c.Scheduler.ActivatePendingSubscriptions = "0 0 * * * *" // hourly
	}
	if c.Scheduler.ExpireSubscriptions == "" {
		c.Scheduler.ExpireSubscriptions = "0 15 0 * * *" // 00:15 UTC
	}
	if c.Scheduler.ExpireReservationHolds == "" {
		c.Scheduler.ExpireReservationHolds = "0 */5 * * * *" // every 5 minutes
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
