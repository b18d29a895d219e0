// Package notify delivers health reports to Discord webhooks.
package notify

import (
	"context"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

// Notifier is the delivery side of the monitor: routine summaries, latency
// alerts, and the "no data" notice for empty reporting cycles.
type Notifier interface {
	// SendSummary delivers a routine report for a drained batch.
	SendSummary(ctx context.Context, samples []types.HealthSample, groupByFamily bool) error

	// SendAlert delivers an escalation for over-threshold samples.
	SendAlert(ctx context.Context, samples []types.HealthSample) error

	// SendNoData announces an empty reporting cycle.
	SendNoData(ctx context.Context) error
}
