package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // rental.timezone must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Rental    RentalConfig    `yaml:"rental"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains the REST and gRPC health listener settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	HealthPort      int    `yaml:"health_port"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_open_conns"`
	Migrate  bool   `yaml:"migrate"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Type string `yaml:"type"` // "postgres" or "memory"
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
	Issuer            string `yaml:"issuer"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format     string `yaml:"format"` // "json" or "text"
	File       string `yaml:"file"`   // optional rotated log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// RateLimitConfig contains API rate limiting settings
type RateLimitConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Rate     string `yaml:"rate"`      // e.g. "100-1m"
	RedisURL string `yaml:"redis_url"` // shared limiter state; in-process when empty
}

// SendGridConfig contains transactional email settings. An empty API key disables email.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// SMTPConfig contains SMTP relay settings, used when no SendGrid key is configured
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// RentalConfig contains business rules that depend on the branch
type RentalConfig struct {
	Timezone string `yaml:"timezone"`
}

// BootstrapConfig creates the first administrator on an empty user table
type BootstrapConfig struct {
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReportOverdueRentals       string `yaml:"report_overdue_rentals"`
	ReportStaleBookingRequests string `yaml:"report_stale_booking_requests"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates the result
func Parse(data []byte) (*Config, error) {
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
	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
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

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.Log.File = val
	}

	// Integrations
	if val := os.Getenv("REDIS_URL"); val != "" {
		c.RateLimit.RedisURL = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		c.Bootstrap.AdminPassword = val
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
	if c.Server.HealthPort == 0 {
		c.Server.HealthPort = c.Server.Port + 1
	}
	if c.Server.HealthPort < 0 || c.Server.HealthPort > 65535 || c.Server.HealthPort == c.Server.Port {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 15
	}

	// Store validation
	c.Store.Type = strings.ToLower(c.Store.Type)
	if c.Store.Type == "" {
		c.Store.Type = "postgres"
	}
	switch c.Store.Type {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
		if c.Database.MaxConns == 0 {
			c.Database.MaxConns = 20
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported store type: %s", c.Store.Type)
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
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "rentacar-backend"
	}

	// Rate limit defaults
	if c.RateLimit.Rate == "" {
		c.RateLimit.Rate = "100-1m"
	}

	// SendGrid validation
	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when an API key is set")
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Rent-a-Car"
	}

	// SMTP validation
	if c.SMTP.Host != "" {
		if c.SMTP.Port == 0 {
			c.SMTP.Port = 587
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp from address is required when an SMTP host is set")
		}
	}

	// Rental defaults
	if c.Rental.Timezone == "" {
		c.Rental.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Rental.Timezone); err != nil {
		return fmt.Errorf("invalid rental timezone %q: %w", c.Rental.Timezone, err)
	}

	// Bootstrap validation
	if c.Bootstrap.AdminUsername != "" && len(c.Bootstrap.AdminPassword) < 8 {
		return fmt.Errorf("bootstrap admin password must be at least 8 characters")
	}

	// Log file defaults
	if c.Log.File != "" {
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = 100
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = 5
		}
		if c.Log.MaxAgeDays == 0 {
			c.Log.MaxAgeDays = 30
		}
	}

	// Scheduler defaults
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = "0 0 2 * * *" // 2 AM
	}
	if c.Scheduler.ReportStaleBookingRequests == "" {
		c.Scheduler.ReportStaleBookingRequests = "0 30 2 * * *" // 2:30 AM
	}

	return nil
}

// EmailProvider reports which transport delivers customer emails: "sendgrid", "smtp" or "none"
func (c *Config) EmailProvider() string {
	switch {
	case c.SendGrid.APIKey != "":
		return "sendgrid"
	case c.SMTP.Host != "":
		return "smtp"
	default:
		return "none"
	}
}

// Location returns the business timezone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Rental.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

// GetServerAddress returns the REST server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health server address
func (c *Config) GetHealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HealthPort)
}

// AccessTokenTTL returns the configured access token lifetime
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
