// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every secret read from the environment.
const EnvPrefix = "courtgrid"

// MaxSweepInterval is the slowest expiry sweep allowed.
const MaxSweepInterval = time.Minute

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type SchedulingConfig struct {
	RequestTTL     time.Duration `yaml:"request_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	SweepBatchSize int           `yaml:"sweep_batch_size"`
	LockWait       time.Duration `yaml:"lock_wait"`
	MaxSpanHours   int           `yaml:"max_span_hours"`
	MaxListDays    int           `yaml:"max_list_days"`
	RetentionDays  int           `yaml:"retention_days"`
	RetentionCron  string        `yaml:"retention_cron"`

	MaxRequestsPerHour   int `yaml:"max_requests_per_hour"`
	MaxIPRequestsPerHour int `yaml:"max_ip_requests_per_hour"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Enabled reports whether the SES notifier has what it needs to send.
func (e EmailConfig) Enabled() bool {
	return e.Region != "" && e.Sender != "" && e.AccessKeyID != "" && e.SecretAccessKey != ""
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"`
		// TrustProxy takes the client address from X-Forwarded-For.
		TrustProxy bool `yaml:"trust_proxy"`
	} `yaml:"app"`

	Database   DatabaseConfig   `yaml:"database"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Events     EventsConfig     `yaml:"events"`
	Email      EmailConfig      `yaml:"email"`
}

// secrets are never read from the YAML file.
type secrets struct {
	SecretKey          string `envconfig:"SECRET_KEY"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AMQPURL            string `envconfig:"AMQP_URL"`
}

// Default returns a configuration with every optional field filled in.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "courtgrid"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/courtgrid.db"
	cfg.Scheduling = SchedulingConfig{
		RequestTTL:     24 * time.Hour,
		SweepInterval:  30 * time.Second,
		SweepBatchSize: 100,
		LockWait:       2 * time.Second,
		MaxSpanHours:   4,
		MaxListDays:    31,
		RetentionDays:  90,
		RetentionCron:  "15 3 * * *",

		MaxRequestsPerHour:   30,
		MaxIPRequestsPerHour: 120,
	}
	cfg.Events.Exchange = "scheduling.events"
	return &cfg
}

// Load loads both .env and yaml configuration. Values missing from the YAML
// file keep their defaults.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.loadSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadSecrets() error {
	var s secrets
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}
	c.App.SecretKey = s.SecretKey
	c.Email.AccessKeyID = s.AWSAccessKeyID
	c.Email.SecretAccessKey = s.AWSSecretAccessKey
	if s.AMQPURL != "" {
		c.Events.AMQPURL = s.AMQPURL
	}
	return nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	s := c.Scheduling
	if s.RequestTTL <= 0 {
		return fmt.Errorf("scheduling.request_ttl must be positive")
	}
	if s.SweepInterval <= 0 || s.SweepInterval > MaxSweepInterval {
		return fmt.Errorf("scheduling.sweep_interval must be positive and at most %s, got %s", MaxSweepInterval, s.SweepInterval)
	}
	if s.SweepBatchSize <= 0 {
		return fmt.Errorf("scheduling.sweep_batch_size must be positive")
	}
	if s.LockWait <= 0 {
		return fmt.Errorf("scheduling.lock_wait must be positive")
	}
	if s.MaxSpanHours < 1 || s.MaxSpanHours > 24 {
		return fmt.Errorf("scheduling.max_span_hours must be between 1 and 24")
	}
	if s.MaxListDays < 1 {
		return fmt.Errorf("scheduling.max_list_days must be positive")
	}
	if s.RetentionDays < 1 {
		return fmt.Errorf("scheduling.retention_days must be positive")
	}
	if s.MaxRequestsPerHour < 1 || s.MaxIPRequestsPerHour < 1 {
		return fmt.Errorf("scheduling.max_requests_per_hour and max_ip_requests_per_hour must be positive")
	}
	if _, err := cron.ParseStandard(s.RetentionCron); err != nil {
		return fmt.Errorf("scheduling.retention_cron: %w", err)
	}

	if c.Events.AMQPURL != "" && c.Events.Exchange == "" {
		return fmt.Errorf("events.exchange is required when amqp_url is set")
	}
	if (c.Email.Region == "") != (c.Email.Sender == "") {
		return fmt.Errorf("email.region and email.sender must be set together")
	}

	return nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "" || c.App.Environment == "development"
}
