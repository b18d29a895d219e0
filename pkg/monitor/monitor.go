// Package monitor provides the core dual-loop health monitoring engine.
//
// A polling loop probes every configured endpoint on a fixed cadence and
// classifies each sample as routine or over-threshold; a reporting loop, on
// its own cadence, drains the routine queue and announces a summary. The two
// loops share nothing but the sample queues.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	iredis "github.com/papci/DiscordHealthBot/internal/redis"
	"github.com/papci/DiscordHealthBot/pkg/config"
	"github.com/papci/DiscordHealthBot/pkg/notify"
	"github.com/papci/DiscordHealthBot/pkg/probes"
	"github.com/papci/DiscordHealthBot/pkg/queue"
	"github.com/papci/DiscordHealthBot/pkg/snapshot"
)

// Monitor is the long-running health monitoring engine.
type Monitor struct {
	config *config.Config
	logger *slog.Logger

	// Collaborators
	prober   probes.EndpointProber
	notifier notify.Notifier
	store    snapshot.Store // nil when persistence is disabled

	// Queues bridging the two loops
	normalQueue *queue.SampleQueue
	alertQueue  *queue.SampleQueue

	// Owned Redis connection, when the monitor built its own store
	redisClient *iredis.Client

	// State
	firstRun bool
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// Option is a functional option for configuring the Monitor.
type Option func(*Monitor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithProber sets a custom endpoint prober.
func WithProber(p probes.EndpointProber) Option {
	return func(m *Monitor) {
		m.prober = p
	}
}

// WithNotifier sets a custom notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Monitor) {
		m.notifier = n
	}
}

// WithStore sets a custom snapshot store. Only consulted when persistence is
// enabled in the config.
func WithStore(s snapshot.Store) Option {
	return func(m *Monitor) {
		m.store = s
	}
}

// New creates a Monitor from a validated config.
func New(cfg *config.Config, opts ...Option) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		config:      cfg,
		logger:      slog.Default(),
		normalQueue: queue.New(),
		alertQueue:  queue.New(),
		firstRun:    true,
		stopChan:    make(chan struct{}),
	}

	// Apply options
	for _, opt := range opts {
		opt(m)
	}

	// Default prober
	if m.prober == nil {
		m.prober = probes.NewHTTPProber(cfg.ProbeTimeout, m.logger)
	}

	// Default notifier
	if m.notifier == nil {
		m.notifier = notify.NewDiscordNotifier(
			cfg.WebhookURL,
			cfg.AlertWebhookURL,
			notify.WithLogger(m.logger),
			notify.WithAlertFloor(cfg.AlertFloor),
		)
	}

	// Default snapshot store. The client is lazy: a down Redis must not block
	// startup, storage failures are non-fatal at runtime.
	if cfg.PersistenceEnabled && m.store == nil {
		client, err := iredis.NewClientLazy(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		m.redisClient = client
		m.store = snapshot.NewRedisStore(client.Client)
	}

	if !cfg.PersistenceEnabled {
		m.store = nil
	}

	return m, nil
}

// Start restores any persisted snapshot, then launches the polling and
// reporting loops. It returns immediately; use Stop for a graceful shutdown.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	if m.store != nil {
		m.restore(ctx)
	}

	m.logger.Info("Health monitor started",
		"endpoints", len(m.config.Endpoints),
		"pollInterval", m.config.PollInterval,
		"reportMode", m.config.ReportMode,
		"alerting", m.config.AlertEnabled,
		"persistence", m.config.PersistenceEnabled,
	)

	m.wg.Add(2)
	go m.pollLoop(ctx)
	go m.reportLoop(ctx)

	return nil
}

// Stop requests cancellation and waits for both loops to finish their
// in-progress cycle.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopChan)
	m.wg.Wait()

	if m.redisClient != nil {
		if err := m.redisClient.Close(); err != nil {
			m.logger.Error("Failed to close Redis connection", "error", err)
		}
	}

	m.logger.Info("Health monitor stopped")
	return nil
}

// restore seeds the normal queue from the last persisted snapshot. Invoked
// once, before the loops start. Failure means starting empty, nothing more.
func (m *Monitor) restore(ctx context.Context) {
	samples, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("Snapshot load failed, starting with an empty queue", "error", err)
		return
	}
	if len(samples) == 0 {
		return
	}

	m.normalQueue.EnqueueAll(samples)
	m.logger.Info("Restored pending samples from snapshot", "samples", len(samples))
}

func (m *Monitor) pollLoop(ctx context.Context) {
	defer m.wg.Done()

	// First cycle runs immediately, then on the interval
	m.pollCycle(ctx)

	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pollCycle(ctx)
		}
	}
}

// pollCycle probes every endpoint, classifies the samples, escalates the
// alert queue, and snapshots the normal queue when persistence is enabled.
func (m *Monitor) pollCycle(ctx context.Context) {
	samples := probes.ProbeAll(ctx, m.prober, m.config.Endpoints)

	floorMS := m.config.AlertFloor.Milliseconds()
	for _, s := range samples {
		if m.config.AlertEnabled && s.LatencyMS > floorMS {
			m.alertQueue.Enqueue(s)
		} else {
			m.normalQueue.Enqueue(s)
		}
	}

	m.escalateAlerts(ctx)

	if m.store != nil {
		if err := m.store.Save(ctx, m.normalQueue.Snapshot()); err != nil {
			m.logger.Warn("Snapshot save failed", "error", err)
		}
	}

	m.logger.Debug("Poll cycle complete", "samples", len(samples), "queued", m.normalQueue.Len())
}

// escalateAlerts drains the alert queue and delivers it through the alert
// path. Delivered samples are requeued into the normal queue so they still
// show up in the next summary; an undeliverable batch is dropped.
func (m *Monitor) escalateAlerts(ctx context.Context) {
	batch := m.alertQueue.DrainAll()
	if len(batch) == 0 {
		return
	}

	if err := m.notifier.SendAlert(ctx, batch); err != nil {
		m.logger.Error("Alert delivery failed, dropping batch", "samples", len(batch), "error", err)
		return
	}

	m.normalQueue.EnqueueAll(batch)
	m.logger.Info("Escalated slow endpoints", "samples", len(batch))
}

func (m *Monitor) reportLoop(ctx context.Context) {
	defer m.wg.Done()

	for {
		delay := nextReportDelay(m.config.ReportMode, m.config.ReportUnit, m.config.ReportDelay, time.Now())
		timer := time.NewTimer(delay)

		select {
		case <-m.stopChan:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			m.reportCycle(ctx)
		}
	}
}

// reportCycle drains the normal queue and delivers the batch. An empty drain
// produces a "no data" notice on every cycle except the first, since the
// queue is legitimately empty before any poll has completed.
func (m *Monitor) reportCycle(ctx context.Context) {
	batch := m.normalQueue.DrainAll()

	if len(batch) > 0 {
		if err := m.notifier.SendSummary(ctx, batch, m.config.GroupByFamily); err != nil {
			// At-most-once: the batch is not requeued, unbounded growth under a
			// sustained outage is worse than a lost report.
			m.logger.Error("Summary delivery failed, batch dropped", "samples", len(batch), "error", err)
		} else {
			m.logger.Info("Summary delivered", "samples", len(batch))
		}

		// The snapshot only protects unreported data; once a reporting attempt
		// has been made, the in-memory batch is the authoritative copy.
		if m.store != nil {
			if err := m.store.Clear(ctx); err != nil {
				m.logger.Warn("Snapshot clear failed", "error", err)
			}
		}
	} else if !m.firstRun {
		if err := m.notifier.SendNoData(ctx); err != nil {
			m.logger.Error("No-data notice delivery failed", "error", err)
		}
	}

	m.firstRun = false
}
