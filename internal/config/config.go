package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment.
type Config struct {
	Port      int    `default:"12124"`
	RunLocal  bool   `split_words:"true"`
	LogLevel  string `default:"info" split_words:"true"`
	LogFormat string `default:"json" split_words:"true"` // json | text

	WorkdayAPIURL     string        `default:"https://date.appworlds.cn/work/days" envconfig:"WORKDAY_API_URL"`
	WorkdayAPITimeout time.Duration `default:"10s" envconfig:"WORKDAY_API_TIMEOUT"`
	WorkdayAPIRate    float64       `default:"1" envconfig:"WORKDAY_API_RATE"` // requests per second, 0 = unlimited

	AWSRegion           string `default:"us-east-1" envconfig:"AWS_REGION"`
	AWSEndpointOverride string `envconfig:"AWS_ENDPOINT_OVERRIDE"`

	// AlertsQueueURL empty disables overdue alert publishing.
	AlertsQueueURL   string        `envconfig:"ALERTS_QUEUE_URL"`
	IdempotencyTable string        `default:"repair-alert-idempotency" envconfig:"IDEMPOTENCY_TABLE"`
	AlertsTable      string        `default:"repair-overdue-alerts" envconfig:"ALERTS_TABLE"`
	AlertTTL         time.Duration `default:"48h" envconfig:"ALERT_TTL"`
	MetricsNamespace string        `default:"RepairSLA" split_words:"true"`
}

// Load processes the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if cfg.WorkdayAPITimeout <= 0 {
		return cfg, fmt.Errorf("load config: WORKDAY_API_TIMEOUT must be positive, got %s", cfg.WorkdayAPITimeout)
	}
	if cfg.WorkdayAPIRate < 0 {
		return cfg, fmt.Errorf("load config: WORKDAY_API_RATE must not be negative, got %v", cfg.WorkdayAPIRate)
	}
	return cfg, nil
}

// Addr is the local listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AlertsEnabled reports whether overdue alerts are published.
func (c Config) AlertsEnabled() bool {
	return c.AlertsQueueURL != ""
}
