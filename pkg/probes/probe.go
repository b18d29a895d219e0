// Package probes provides the endpoint prober and the monitor self-probe.
package probes

import (
	"context"

	"github.com/papci/DiscordHealthBot/pkg/types"
	"golang.org/x/sync/errgroup"
)

// EndpointProber performs one health check of one endpoint. Implementations
// never return an error: a failed probe is a failed sample.
type EndpointProber interface {
	Probe(ctx context.Context, ep types.Endpoint) types.HealthSample
}

// ProbeAll probes every endpoint concurrently and returns one sample per
// endpoint, in configuration order. All probes complete before it returns.
func ProbeAll(ctx context.Context, p EndpointProber, endpoints []types.Endpoint) []types.HealthSample {
	samples := make([]types.HealthSample, len(endpoints))

	var g errgroup.Group
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			samples[i] = p.Probe(ctx, ep)
			return nil
		})
	}
	g.Wait()

	return samples
}
