package probes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

// HTTPProber checks endpoints with a single HTTP GET per probe, no retry.
type HTTPProber struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPProber creates a prober with the given per-request timeout.
func NewHTTPProber(timeout time.Duration, logger *slog.Logger) *HTTPProber {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPProber{
		client: &http.Client{
			Timeout: timeout,
			// Report the endpoint's own status; a redirect is a valid answer,
			// not a hop to follow.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Probe performs one GET against the endpoint. A transport-level failure
// (timeout, DNS, refused connection) yields a failed sample with status code 0;
// the error is logged, never propagated. Latency covers the whole attempt
// regardless of outcome.
func (p *HTTPProber) Probe(ctx context.Context, ep types.Endpoint) types.HealthSample {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.Address, nil)
	if err != nil {
		p.logger.Error("Probe request build failed", "endpoint", ep.Address, "error", err)
		return types.NewHealthSample(ep, 0, time.Since(start))
	}

	resp, err := p.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		p.logger.Warn("Probe failed", "endpoint", ep.Address, "family", ep.Family, "error", err)
		return types.NewHealthSample(ep, 0, latency)
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return types.NewHealthSample(ep, resp.StatusCode, latency)
}

// Ensure HTTPProber implements EndpointProber
var _ EndpointProber = (*HTTPProber)(nil)
