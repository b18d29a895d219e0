package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

// Embed colors
const (
	colorHealthy  = 0x2ECC71
	colorDegraded = 0xE74C3C
	colorNeutral  = 0x95A5A6
)

// Discord allows at most 25 fields per embed and 10 embeds per message.
const maxFieldsPerEmbed = 25

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the footer line of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// DiscordNotifier posts reports to Discord webhooks. Summaries and the
// no-data notice go to the main webhook, escalations to the alert webhook.
type DiscordNotifier struct {
	webhookURL      string
	alertWebhookURL string
	alertFloor      time.Duration
	client          *http.Client
	logger          *slog.Logger
	footerFunc      func() string
}

// Option is a functional option for configuring the notifier.
type Option func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *DiscordNotifier) {
		n.client = c
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *DiscordNotifier) {
		n.logger = logger
	}
}

// WithFooter sets a provider for the summary footer line (e.g. monitor host
// status). Called once per summary.
func WithFooter(f func() string) Option {
	return func(n *DiscordNotifier) {
		n.footerFunc = f
	}
}

// WithAlertFloor records the latency floor so alert embeds can show it.
func WithAlertFloor(d time.Duration) Option {
	return func(n *DiscordNotifier) {
		n.alertFloor = d
	}
}

// NewDiscordNotifier creates a notifier for the given webhooks. An empty
// alert webhook falls back to the main one.
func NewDiscordNotifier(webhookURL, alertWebhookURL string, opts ...Option) *DiscordNotifier {
	if alertWebhookURL == "" {
		alertWebhookURL = webhookURL
	}

	n := &DiscordNotifier{
		webhookURL:      webhookURL,
		alertWebhookURL: alertWebhookURL,
		client:          &http.Client{Timeout: 15 * time.Second},
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

func (n *DiscordNotifier) SendSummary(ctx context.Context, samples []types.HealthSample, groupByFamily bool) error {
	var embeds []Embed

	if groupByFamily {
		order, groups := types.GroupByFamily(samples)
		for _, family := range order {
			embeds = append(embeds, buildSummaryEmbeds(family, groups[family])...)
		}
	} else {
		embeds = buildSummaryEmbeds("Health report", samples)
	}

	if n.footerFunc != nil && len(embeds) > 0 {
		embeds[len(embeds)-1].Footer = &EmbedFooter{Text: n.footerFunc()}
	}

	return n.send(ctx, n.webhookURL, webhookPayload{Embeds: embeds})
}

func (n *DiscordNotifier) SendAlert(ctx context.Context, samples []types.HealthSample) error {
	desc := "Latency above the configured floor"
	if n.alertFloor > 0 {
		desc = fmt.Sprintf("Latency above %s", n.alertFloor)
	}

	embed := Embed{
		Title:       "🚨 Latency alert",
		Description: desc,
		Color:       colorDegraded,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range samples {
		embed.Fields = append(embed.Fields, EmbedField{
			Name:  s.Address,
			Value: formatSample(s),
		})
	}

	return n.send(ctx, n.alertWebhookURL, webhookPayload{Embeds: []Embed{embed}})
}

func (n *DiscordNotifier) SendNoData(ctx context.Context) error {
	embed := Embed{
		Title:       "No data received",
		Description: "No health samples were collected during the last reporting period.",
		Color:       colorNeutral,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	return n.send(ctx, n.webhookURL, webhookPayload{Embeds: []Embed{embed}})
}

// buildSummaryEmbeds renders one batch under a title, chunking to stay within
// Discord's per-embed field limit.
func buildSummaryEmbeds(title string, samples []types.HealthSample) []Embed {
	color := colorHealthy
	if !types.AllHealthy(samples) {
		color = colorDegraded
	}

	var embeds []Embed
	for start := 0; start < len(samples); start += maxFieldsPerEmbed {
		end := min(start+maxFieldsPerEmbed, len(samples))

		embed := Embed{
			Color:     color,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if start == 0 {
			embed.Title = title
		}
		for _, s := range samples[start:end] {
			embed.Fields = append(embed.Fields, EmbedField{
				Name:   s.Address,
				Value:  formatSample(s),
				Inline: true,
			})
		}
		embeds = append(embeds, embed)
	}

	return embeds
}

func formatSample(s types.HealthSample) string {
	if s.StatusCode == 0 {
		return fmt.Sprintf("❌ unreachable (%dms)", s.LatencyMS)
	}
	mark := "✅"
	if !s.Success {
		mark = "❌"
	}
	return fmt.Sprintf("%s %d (%dms)", mark, s.StatusCode, s.LatencyMS)
}

func (n *DiscordNotifier) send(ctx context.Context, url string, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Webhook delivered", "embeds", len(payload.Embeds), "status", resp.StatusCode)
	return nil
}

// Ensure DiscordNotifier implements Notifier
var _ Notifier = (*DiscordNotifier)(nil)
