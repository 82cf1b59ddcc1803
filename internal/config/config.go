package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Policy    PolicyConfig    `yaml:"policy"`
	RFID      RFIDConfig      `yaml:"rfid"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
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

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PolicyConfig contains the circulation business rules
type PolicyConfig struct {
	ReturnWindowHours    int `yaml:"return_window_hours"`     // checkout -> due date
	MaxContainersPerUser int `yaml:"max_containers_per_user"` // active checkouts per user
	LateFeeCents         int `yaml:"late_fee_cents"`          // flat fee on a late return
	GracePeriodHours     int `yaml:"grace_period_hours"`      // reminder lead time after due
	PendingCheckoutTTL   int `yaml:"pending_checkout_ttl_seconds"`
}

// ReturnWindow is the checkout-to-due-date duration.
func (p PolicyConfig) ReturnWindow() time.Duration {
	return time.Duration(p.ReturnWindowHours) * time.Hour
}

// PendingTTL is how long a begun checkout waits for its container scan.
func (p PolicyConfig) PendingTTL() time.Duration {
	return time.Duration(p.PendingCheckoutTTL) * time.Second
}

// RFIDConfig tunes the simulated read channel
type RFIDConfig struct {
	ReadLatencyMs int     `yaml:"read_latency_ms"`
	FailureRate   float64 `yaml:"failure_rate"`
	BatchPacingMs int     `yaml:"batch_pacing_ms"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
	Enabled  bool   `yaml:"enabled"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendOverdueReminders string `yaml:"send_overdue_reminders"`
	RecomputeLeaderboard string `yaml:"recompute_leaderboard"`
	SweepPendingCheckout string `yaml:"sweep_pending_checkouts"`
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
		c.Email.From = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills policy defaults
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

	// Email validation, only when enabled
	if c.Email.Enabled {
		if c.Email.APIKey == "" {
			return fmt.Errorf("sendgrid api key is required when email is enabled")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email from address is required when email is enabled")
		}
	}

	// Policy defaults match the campus pilot settings
	if c.Policy.ReturnWindowHours == 0 {
		c.Policy.ReturnWindowHours = 72
	}
	if c.Policy.MaxContainersPerUser == 0 {
		c.Policy.MaxContainersPerUser = 5
	}
	if c.Policy.LateFeeCents == 0 {
		c.Policy.LateFeeCents = 500 // $5.00
	}
	if c.Policy.GracePeriodHours == 0 {
		c.Policy.GracePeriodHours = 24
	}
	if c.Policy.PendingCheckoutTTL == 0 {
		c.Policy.PendingCheckoutTTL = 120
	}

	// RFID defaults match the demo hardware profile
	if c.RFID.ReadLatencyMs == 0 {
		c.RFID.ReadLatencyMs = 200
	}
	if c.RFID.FailureRate == 0 {
		c.RFID.FailureRate = 0.05
	}
	if c.RFID.BatchPacingMs == 0 {
		c.RFID.BatchPacingMs = 50
	}
	if c.RFID.FailureRate < 0 || c.RFID.FailureRate >= 1 {
		return fmt.Errorf("rfid failure rate must be in [0, 1): %f", c.RFID.FailureRate)
	}

	// Scheduler defaults
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.RecomputeLeaderboard == "" {
		c.Scheduler.RecomputeLeaderboard = "0 30 3 * * *" // 3:30 AM UTC
	}
	if c.Scheduler.SweepPendingCheckout == "" {
		c.Scheduler.SweepPendingCheckout = "0 */5 * * * *" // every 5 minutes
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
