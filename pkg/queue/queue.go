// Package queue provides the FIFO sample buffers shared by the polling and
// reporting loops.
package queue

import (
	"sync"

	"github.com/papci/DiscordHealthBot/pkg/types"
)

// SampleQueue is a FIFO buffer of health samples, safe for concurrent use.
// The polling loop enqueues, the reporting loop and alert escalation drain.
type SampleQueue struct {
	mu      sync.Mutex
	samples []types.HealthSample
}

// New creates an empty queue.
func New() *SampleQueue {
	return &SampleQueue{}
}

// Enqueue appends one sample to the tail of the queue.
func (q *SampleQueue) Enqueue(s types.HealthSample) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.samples = append(q.samples, s)
}

// EnqueueAll appends a batch in order.
func (q *SampleQueue) EnqueueAll(batch []types.HealthSample) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.samples = append(q.samples, batch...)
}

// DrainAll atomically removes and returns every queued sample, in FIFO order.
// The queue is empty afterwards.
func (q *SampleQueue) DrainAll() []types.HealthSample {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.samples
	q.samples = nil
	return batch
}

// Snapshot returns a copy of the current contents without draining. Used for
// point-in-time persistence.
func (q *SampleQueue) Snapshot() []types.HealthSample {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.samples) == 0 {
		return nil
	}
	out := make([]types.HealthSample, len(q.samples))
	copy(out, q.samples)
	return out
}

// Len returns the number of queued samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples)
}
