// Package types defines shared types for the health bot.
package types

import "time"

// Endpoint is a monitored target, built once from configuration and never mutated.
type Endpoint struct {
	Address string `json:"address"` // full URL, probed with HTTP GET
	Family  string `json:"family"`  // logical service family, used for report grouping
}

// HealthSample is the outcome of a single probe of a single endpoint.
type HealthSample struct {
	Address    string    `json:"address"`
	Family     string    `json:"family"`
	Success    bool      `json:"success"`
	StatusCode int       `json:"statusCode"` // 0 when the probe failed before receiving a status
	LatencyMS  int64     `json:"latencyMs"`
	Timestamp  time.Time `json:"timestamp"` // UTC instant the probe completed
}

// NewHealthSample builds a sample for an endpoint. Success is derived from the
// status code: anything in [200, 400) counts as healthy, everything else
// (including a transport failure reported as code 0) does not.
func NewHealthSample(ep Endpoint, statusCode int, latency time.Duration) HealthSample {
	return HealthSample{
		Address:    ep.Address,
		Family:     ep.Family,
		Success:    statusCode >= 200 && statusCode < 400,
		StatusCode: statusCode,
		LatencyMS:  latency.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
}

// GroupByFamily buckets samples by family name, preserving sample order within
// each bucket. Family names come back in first-seen order.
func GroupByFamily(samples []HealthSample) ([]string, map[string][]HealthSample) {
	var order []string
	groups := make(map[string][]HealthSample)
	for _, s := range samples {
		if _, ok := groups[s.Family]; !ok {
			order = append(order, s.Family)
		}
		groups[s.Family] = append(groups[s.Family], s)
	}
	return order, groups
}

// AllHealthy reports whether every sample in the batch succeeded.
func AllHealthy(samples []HealthSample) bool {
	for _, s := range samples {
		if !s.Success {
			return false
		}
	}
	return true
}
