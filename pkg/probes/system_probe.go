package probes

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// NodeStatus describes the monitor process itself. It is attached to summary
// reports so a silent monitor host is distinguishable from silent endpoints.
type NodeStatus struct {
	Hostname   string
	PID        int
	Platform   string
	GoVersion  string
	Uptime     time.Duration
	CPUPercent float64 // system-wide, 0-100
	MemPercent float64 // system-wide, 0-100
	RSS        uint64  // bytes, this process
}

// Footer renders a one-line status suitable for a report footer.
func (n NodeStatus) Footer() string {
	return fmt.Sprintf("monitor %s pid=%d up=%s cpu=%.1f%% mem=%.1f%% rss=%dMB",
		n.Hostname, n.PID, n.Uptime.Round(time.Second), n.CPUPercent, n.MemPercent, n.RSS/(1<<20))
}

// SystemProbe reports the status of the monitor process and its host.
type SystemProbe interface {
	Status() (*NodeStatus, error)
}

// GoSystemProbe implements SystemProbe using gopsutil.
type GoSystemProbe struct {
	startTime time.Time
	proc      *process.Process

	// CPU sampling
	mu               sync.RWMutex
	cachedCPUPercent float64
	stopSampler      chan struct{}
}

// NewGoSystemProbe creates a system probe for this process.
func NewGoSystemProbe() (*GoSystemProbe, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}

	probe := &GoSystemProbe{
		startTime:   time.Now(),
		proc:        p,
		stopSampler: make(chan struct{}),
	}

	// Seed the CPU baseline; the first delta comes from the sampler
	cpu.Percent(0, false)

	go probe.cpuSampler()

	return probe, nil
}

// cpuSampler keeps a cached system CPU reading so Status never blocks on a
// measurement interval.
func (p *GoSystemProbe) cpuSampler() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
				p.mu.Lock()
				p.cachedCPUPercent = pcts[0]
				p.mu.Unlock()
			}
		case <-p.stopSampler:
			return
		}
	}
}

// Stop terminates the background sampler.
func (p *GoSystemProbe) Stop() {
	close(p.stopSampler)
}

// Status returns a point-in-time view of the monitor process and host.
func (p *GoSystemProbe) Status() (*NodeStatus, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	p.mu.RLock()
	cpuPercent := p.cachedCPUPercent
	p.mu.RUnlock()

	memPercent := 0.0
	if v, err := mem.VirtualMemory(); err == nil {
		memPercent = v.UsedPercent
	}

	var rss uint64
	if memInfo, err := p.proc.MemoryInfo(); err == nil {
		rss = memInfo.RSS
	} else {
		// Fallback to Go runtime memory stats
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		rss = m.Sys
	}

	return &NodeStatus{
		Hostname:   hostname,
		PID:        os.Getpid(),
		Platform:   runtime.GOOS,
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(p.startTime),
		CPUPercent: cpuPercent,
		MemPercent: memPercent,
		RSS:        rss,
	}, nil
}

// Ensure GoSystemProbe implements SystemProbe
var _ SystemProbe = (*GoSystemProbe)(nil)
