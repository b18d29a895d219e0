// Package config handles configuration loading from environment variables.
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

// Report cadence modes.
const (
	ReportModeFixed   = "fixed"   // align to wall-clock boundaries (minute/hour/day)
	ReportModeRolling = "rolling" // fixed delay from the end of each reporting cycle
)

// Config holds all configuration for the health bot.
type Config struct {
	// Monitored endpoints, in configuration order
	Endpoints []types.Endpoint

	// Discord webhooks
	WebhookURL      string // summary and no-data reports
	AlertWebhookURL string // escalations (defaults to WebhookURL)

	// Polling
	PollInterval time.Duration // default: 60s
	ProbeTimeout time.Duration // per-probe HTTP client timeout (default: 10s)

	// Reporting cadence
	ReportMode  string        // "fixed" or "rolling"
	ReportUnit  string        // fixed mode: "day", "hour" or "minute"
	ReportDelay time.Duration // rolling mode delay

	// Alerting
	AlertEnabled bool
	AlertFloor   time.Duration // samples slower than this are escalated

	// Persistence
	PersistenceEnabled bool
	RedisURL           string

	// Group summary reports by endpoint family
	GroupByFamily bool
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 60 * time.Second,
		ProbeTimeout: 10 * time.Second,
		ReportMode:   ReportModeFixed,
		ReportUnit:   "hour",
		ReportDelay:  time.Hour,
		AlertFloor:   1000 * time.Millisecond,
	}
}

// Load creates a Config from environment variables.
func Load() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("HEALTHBOT_ENDPOINTS"); v != "" {
		cfg.Endpoints = parseEndpoints(v)
	}

	cfg.WebhookURL = os.Getenv("HEALTHBOT_WEBHOOK_URL")
	cfg.AlertWebhookURL = os.Getenv("HEALTHBOT_ALERT_WEBHOOK_URL")
	if cfg.AlertWebhookURL == "" {
		cfg.AlertWebhookURL = cfg.WebhookURL
	}

	if v := os.Getenv("HEALTHBOT_POLL_INTERVAL"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.PollInterval = time.Duration(seconds) * time.Second
		}
	}

	if v := os.Getenv("HEALTHBOT_PROBE_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.ProbeTimeout = time.Duration(seconds) * time.Second
		}
	}

	if v := os.Getenv("HEALTHBOT_REPORT_MODE"); v != "" {
		cfg.ReportMode = strings.ToLower(v)
	}

	if v := os.Getenv("HEALTHBOT_REPORT_UNIT"); v != "" {
		cfg.ReportUnit = strings.ToLower(v)
	}

	if v := os.Getenv("HEALTHBOT_REPORT_DELAY"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.ReportDelay = time.Duration(seconds) * time.Second
		}
	}

	cfg.AlertEnabled = parseBool(os.Getenv("HEALTHBOT_ALERT_ENABLED"))

	if v := os.Getenv("HEALTHBOT_ALERT_FLOOR_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.AlertFloor = time.Duration(ms) * time.Millisecond
		}
	}

	cfg.PersistenceEnabled = parseBool(os.Getenv("HEALTHBOT_PERSISTENCE_ENABLED"))
	cfg.RedisURL = os.Getenv("HEALTHBOT_REDIS_URL")

	cfg.GroupByFamily = parseBool(os.Getenv("HEALTHBOT_GROUP_BY_FAMILY"))

	return cfg
}

// parseEndpoints parses the endpoint list string.
// Format: "url|family,url|family" or "url" (family defaults to the URL host).
func parseEndpoints(s string) []types.Endpoint {
	var endpoints []types.Endpoint

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		address, family, found := strings.Cut(part, "|")
		address = strings.TrimSpace(address)
		family = strings.TrimSpace(family)

		if !found || family == "" {
			if u, err := url.Parse(address); err == nil {
				family = u.Host
			} else {
				family = address
			}
		}

		endpoints = append(endpoints, types.Endpoint{Address: address, Family: family})
	}

	return endpoints
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Validate checks if the configuration is valid. This is the only fatal error
// path: the loops never start on an invalid config.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return &ConfigError{Field: "Endpoints", Message: "at least one endpoint is required (set HEALTHBOT_ENDPOINTS)"}
	}
	for _, ep := range c.Endpoints {
		u, err := url.Parse(ep.Address)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ConfigError{Field: "Endpoints", Message: "invalid endpoint URL: " + ep.Address}
		}
	}
	if c.WebhookURL == "" {
		return &ConfigError{Field: "WebhookURL", Message: "webhook URL is required (set HEALTHBOT_WEBHOOK_URL)"}
	}
	if c.PollInterval <= 0 {
		return &ConfigError{Field: "PollInterval", Message: "polling interval must be positive"}
	}
	if c.ReportMode != ReportModeFixed && c.ReportMode != ReportModeRolling {
		return &ConfigError{Field: "ReportMode", Message: "report mode must be \"fixed\" or \"rolling\""}
	}
	if c.ReportMode == ReportModeRolling && c.ReportDelay <= 0 {
		return &ConfigError{Field: "ReportDelay", Message: "report delay must be positive in rolling mode"}
	}
	if c.AlertEnabled && c.AlertFloor <= 0 {
		return &ConfigError{Field: "AlertFloor", Message: "alert floor must be positive when alerting is enabled"}
	}
	if c.PersistenceEnabled && c.RedisURL == "" {
		return &ConfigError{Field: "RedisURL", Message: "Redis URL is required when persistence is enabled (set HEALTHBOT_REDIS_URL)"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + ": " + e.Message
}
