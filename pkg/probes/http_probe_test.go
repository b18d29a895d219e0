package probes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProbeStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		success    bool
		statusCode int
	}{
		{
			name:       "200 OK",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			success:    true,
			statusCode: 200,
		},
		{
			name:       "204 No Content",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
			success:    true,
			statusCode: 204,
		},
		{
			name: "301 redirect is not followed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "http://elsewhere.invalid/", http.StatusMovedPermanently)
			},
			success:    true,
			statusCode: 301,
		},
		{
			name:       "404 Not Found",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			success:    false,
			statusCode: 404,
		},
		{
			name:       "500 Internal Server Error",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			success:    false,
			statusCode: 500,
		},
	}

	prober := NewHTTPProber(5*time.Second, discardLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			ep := types.Endpoint{Address: srv.URL, Family: "test"}
			s := prober.Probe(context.Background(), ep)

			if s.Success != tt.success {
				t.Errorf("Expected success=%v, got %v", tt.success, s.Success)
			}

			if s.StatusCode != tt.statusCode {
				t.Errorf("Expected status %d, got %d", tt.statusCode, s.StatusCode)
			}

			if s.Address != srv.URL || s.Family != "test" {
				t.Errorf("Sample does not carry endpoint identity: %+v", s)
			}

			if s.LatencyMS < 0 {
				t.Errorf("Expected non-negative latency, got %d", s.LatencyMS)
			}
		})
	}
}

func TestProbeTransportError(t *testing.T) {
	// A server that is already closed refuses connections
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	prober := NewHTTPProber(2*time.Second, discardLogger())
	s := prober.Probe(context.Background(), types.Endpoint{Address: addr, Family: "down"})

	if s.Success {
		t.Error("Expected failed sample for refused connection")
	}

	if s.StatusCode != 0 {
		t.Errorf("Expected status code 0 for transport error, got %d", s.StatusCode)
	}
}

func TestProbeMeasuresLatency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prober := NewHTTPProber(5*time.Second, discardLogger())
	s := prober.Probe(context.Background(), types.Endpoint{Address: srv.URL, Family: "slow"})

	if s.LatencyMS < 50 {
		t.Errorf("Expected latency of at least 50ms, got %d", s.LatencyMS)
	}
}

func TestProbeAllPreservesOrder(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()

	endpoints := []types.Endpoint{
		{Address: slow.URL, Family: "slow"},
		{Address: ok.URL, Family: "fast"},
		{Address: slow.URL, Family: "slow"},
	}

	prober := NewHTTPProber(5*time.Second, discardLogger())
	samples := ProbeAll(context.Background(), prober, endpoints)

	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(samples))
	}

	// Configuration order is kept even though the fast endpoint finishes first
	for i, ep := range endpoints {
		if samples[i].Address != ep.Address || samples[i].Family != ep.Family {
			t.Errorf("Sample[%d]: expected %s/%s, got %s/%s", i, ep.Address, ep.Family, samples[i].Address, samples[i].Family)
		}
	}
}
