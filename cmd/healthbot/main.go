// Discord Health Bot
//
// A long-running monitor that probes a configured list of HTTP endpoints,
// escalates slow ones, and periodically announces a health summary to a
// Discord webhook. Pending samples can be buffered in Redis across restarts.
//
// Usage:
//
//	HEALTHBOT_ENDPOINTS="https://api.example.com/health|api" \
//	HEALTHBOT_WEBHOOK_URL="https://discord.com/api/webhooks/..." \
//	healthbot
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/papci/DiscordHealthBot/pkg/config"
	"github.com/papci/DiscordHealthBot/pkg/monitor"
	"github.com/papci/DiscordHealthBot/pkg/notify"
	"github.com/papci/DiscordHealthBot/pkg/probes"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Handle --help or --version
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("healthbot %s (commit: %s)\n", version, commit)
			os.Exit(0)
		}
	}

	// Load and validate configuration; this is the only fatal path
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration error", "error", err)
		fmt.Println("\nRun 'healthbot --help' for usage information.")
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []monitor.Option{monitor.WithLogger(logger)}

	// Attach a monitor-host status footer to summaries
	sysProbe, err := probes.NewGoSystemProbe()
	if err != nil {
		logger.Warn("System probe unavailable, summaries will have no host footer", "error", err)
	} else {
		defer sysProbe.Stop()
		notifier := notify.NewDiscordNotifier(
			cfg.WebhookURL,
			cfg.AlertWebhookURL,
			notify.WithLogger(logger),
			notify.WithAlertFloor(cfg.AlertFloor),
			notify.WithFooter(func() string {
				status, err := sysProbe.Status()
				if err != nil {
					return ""
				}
				return status.Footer()
			}),
		)
		opts = append(opts, monitor.WithNotifier(notifier))
	}

	m, err := monitor.New(cfg, opts...)
	if err != nil {
		logger.Error("Failed to create monitor", "error", err)
		os.Exit(1)
	}

	if err := m.Start(ctx); err != nil {
		logger.Error("Failed to start monitor", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", "signal", sig)

	// Graceful shutdown: in-flight cycles run to completion
	cancel()
	if err := m.Stop(context.Background()); err != nil {
		logger.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`Usage: healthbot [options]

healthbot probes a list of HTTP endpoints on a fixed cadence and posts
periodic health summaries to a Discord webhook. Endpoints slower than the
alert floor are escalated immediately through a separate alert webhook.

Environment Variables:
  HEALTHBOT_ENDPOINTS            (Required) "url|family,url|family,..."
  HEALTHBOT_WEBHOOK_URL          (Required) Discord webhook for summaries
  HEALTHBOT_ALERT_WEBHOOK_URL    Alert webhook (default: HEALTHBOT_WEBHOOK_URL)
  HEALTHBOT_POLL_INTERVAL        Polling interval in seconds (default: 60)
  HEALTHBOT_PROBE_TIMEOUT        Per-probe HTTP timeout in seconds (default: 10)
  HEALTHBOT_REPORT_MODE          "fixed" or "rolling" (default: fixed)
  HEALTHBOT_REPORT_UNIT          Fixed mode boundary: "day", "hour" or "minute" (default: hour)
  HEALTHBOT_REPORT_DELAY         Rolling mode delay in seconds (default: 3600)
  HEALTHBOT_ALERT_ENABLED        Escalate slow endpoints (default: false)
  HEALTHBOT_ALERT_FLOOR_MS       Latency floor in milliseconds (default: 1000)
  HEALTHBOT_PERSISTENCE_ENABLED  Buffer pending samples in Redis (default: false)
  HEALTHBOT_REDIS_URL            Redis URL, required when persistence is enabled
  HEALTHBOT_GROUP_BY_FAMILY      One report section per endpoint family (default: false)

Options:
  -h, --help      Show this help message
  -v, --version   Show version information

Examples:
  # Hourly summaries for two endpoints
  HEALTHBOT_ENDPOINTS="https://api.example.com/health|api,https://www.example.com|web" \
  HEALTHBOT_WEBHOOK_URL="https://discord.com/api/webhooks/1/abc" \
  healthbot

  # Alerting and restart-safe buffering
  HEALTHBOT_ENDPOINTS="https://api.example.com/health|api" \
  HEALTHBOT_WEBHOOK_URL="https://discord.com/api/webhooks/1/abc" \
  HEALTHBOT_ALERT_ENABLED=true HEALTHBOT_ALERT_FLOOR_MS=500 \
  HEALTHBOT_PERSISTENCE_ENABLED=true HEALTHBOT_REDIS_URL=redis://localhost:6379 \
  healthbot`)
}
