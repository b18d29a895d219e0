package config

import (
	"os"
	"testing"
	"time"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

func TestLoad(t *testing.T) {
	// Save original env
	originalEnv := make(map[string]string)
	envVars := []string{
		"HEALTHBOT_ENDPOINTS",
		"HEALTHBOT_WEBHOOK_URL",
		"HEALTHBOT_ALERT_WEBHOOK_URL",
		"HEALTHBOT_POLL_INTERVAL",
		"HEALTHBOT_PROBE_TIMEOUT",
		"HEALTHBOT_REPORT_MODE",
		"HEALTHBOT_REPORT_UNIT",
		"HEALTHBOT_REPORT_DELAY",
		"HEALTHBOT_ALERT_ENABLED",
		"HEALTHBOT_ALERT_FLOOR_MS",
		"HEALTHBOT_PERSISTENCE_ENABLED",
		"HEALTHBOT_REDIS_URL",
		"HEALTHBOT_GROUP_BY_FAMILY",
	}

	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key)
	}

	// Restore env after test
	defer func() {
		for key, val := range originalEnv {
			if val != "" {
				os.Setenv(key, val)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		if cfg.PollInterval != 60*time.Second {
			t.Errorf("Expected default poll interval 60s, got %v", cfg.PollInterval)
		}

		if cfg.ReportMode != ReportModeFixed {
			t.Errorf("Expected default report mode fixed, got %s", cfg.ReportMode)
		}

		if cfg.ReportUnit != "hour" {
			t.Errorf("Expected default report unit hour, got %s", cfg.ReportUnit)
		}

		if cfg.AlertEnabled {
			t.Error("Expected alerting disabled by default")
		}

		if cfg.AlertFloor != time.Second {
			t.Errorf("Expected default alert floor 1s, got %v", cfg.AlertFloor)
		}
	})

	t.Run("from environment", func(t *testing.T) {
		os.Setenv("HEALTHBOT_ENDPOINTS", "https://api.example.com/health|api, https://web.example.com|web")
		os.Setenv("HEALTHBOT_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
		os.Setenv("HEALTHBOT_POLL_INTERVAL", "30")
		os.Setenv("HEALTHBOT_REPORT_MODE", "rolling")
		os.Setenv("HEALTHBOT_REPORT_DELAY", "600")
		os.Setenv("HEALTHBOT_ALERT_ENABLED", "true")
		os.Setenv("HEALTHBOT_ALERT_FLOOR_MS", "250")
		os.Setenv("HEALTHBOT_PERSISTENCE_ENABLED", "true")
		os.Setenv("HEALTHBOT_REDIS_URL", "redis://localhost:6379")
		os.Setenv("HEALTHBOT_GROUP_BY_FAMILY", "1")

		cfg := Load()

		if len(cfg.Endpoints) != 2 {
			t.Fatalf("Expected 2 endpoints, got %d", len(cfg.Endpoints))
		}

		if cfg.Endpoints[0].Address != "https://api.example.com/health" || cfg.Endpoints[0].Family != "api" {
			t.Errorf("Unexpected endpoint[0]: %+v", cfg.Endpoints[0])
		}

		if cfg.WebhookURL != "https://discord.com/api/webhooks/1/abc" {
			t.Errorf("Unexpected webhook URL: %s", cfg.WebhookURL)
		}

		// Alert webhook falls back to the main webhook
		if cfg.AlertWebhookURL != cfg.WebhookURL {
			t.Errorf("Expected alert webhook to default to main webhook, got %s", cfg.AlertWebhookURL)
		}

		if cfg.PollInterval != 30*time.Second {
			t.Errorf("Expected poll interval 30s, got %v", cfg.PollInterval)
		}

		if cfg.ReportMode != ReportModeRolling {
			t.Errorf("Expected rolling report mode, got %s", cfg.ReportMode)
		}

		if cfg.ReportDelay != 10*time.Minute {
			t.Errorf("Expected report delay 10m, got %v", cfg.ReportDelay)
		}

		if !cfg.AlertEnabled {
			t.Error("Expected alerting enabled")
		}

		if cfg.AlertFloor != 250*time.Millisecond {
			t.Errorf("Expected alert floor 250ms, got %v", cfg.AlertFloor)
		}

		if !cfg.PersistenceEnabled || cfg.RedisURL != "redis://localhost:6379" {
			t.Errorf("Unexpected persistence config: %v %s", cfg.PersistenceEnabled, cfg.RedisURL)
		}

		if !cfg.GroupByFamily {
			t.Error("Expected group-by-family enabled")
		}
	})
}

func TestParseEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []types.Endpoint
	}{
		{
			name:  "single endpoint with family",
			input: "https://api.example.com/health|api",
			expected: []types.Endpoint{
				{Address: "https://api.example.com/health", Family: "api"},
			},
		},
		{
			name:  "multiple endpoints",
			input: "https://a.example.com|front,https://b.example.com|back",
			expected: []types.Endpoint{
				{Address: "https://a.example.com", Family: "front"},
				{Address: "https://b.example.com", Family: "back"},
			},
		},
		{
			name:  "endpoint without family defaults to host",
			input: "https://api.example.com/health",
			expected: []types.Endpoint{
				{Address: "https://api.example.com/health", Family: "api.example.com"},
			},
		},
		{
			name:  "whitespace trimmed",
			input: " https://a.example.com | front , https://b.example.com | back ",
			expected: []types.Endpoint{
				{Address: "https://a.example.com", Family: "front"},
				{Address: "https://b.example.com", Family: "back"},
			},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseEndpoints(tt.input)

			if len(result) != len(tt.expected) {
				t.Fatalf("Expected %d endpoints, got %d", len(tt.expected), len(result))
			}

			for i, expected := range tt.expected {
				if result[i] != expected {
					t.Errorf("Endpoint[%d]: expected %+v, got %+v", i, expected, result[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Endpoints = []types.Endpoint{{Address: "https://api.example.com/health", Family: "api"}}
		cfg.WebhookURL = "https://discord.com/api/webhooks/1/abc"
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Expected no validation error, got %v", err)
		}
	})

	t.Run("missing endpoints", func(t *testing.T) {
		cfg := valid()
		cfg.Endpoints = nil
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for missing endpoints")
		}
	})

	t.Run("invalid endpoint URL", func(t *testing.T) {
		cfg := valid()
		cfg.Endpoints = []types.Endpoint{{Address: "not a url", Family: "x"}}
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for invalid endpoint URL")
		}
	})

	t.Run("missing webhook", func(t *testing.T) {
		cfg := valid()
		cfg.WebhookURL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for missing webhook")
		}
	})

	t.Run("bad report mode", func(t *testing.T) {
		cfg := valid()
		cfg.ReportMode = "sometimes"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for unknown report mode")
		}
	})

	t.Run("rolling mode needs a delay", func(t *testing.T) {
		cfg := valid()
		cfg.ReportMode = ReportModeRolling
		cfg.ReportDelay = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for zero rolling delay")
		}
	})

	t.Run("persistence needs a redis URL", func(t *testing.T) {
		cfg := valid()
		cfg.PersistenceEnabled = true
		cfg.RedisURL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected validation error for missing Redis URL")
		}
	})
}
