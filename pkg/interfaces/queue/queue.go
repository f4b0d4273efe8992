package queue

import (
	"context"
	"sync"
	"time"
)

// Job represents a unit of delivery work. Payload is a domain.Delivery for
// messenger jobs.
type Job struct {
	Key     string
	Payload any
	RunAt   time.Time
}

// Queue is the enqueue side of the delivery pipeline. Enqueue is
// fire-and-forget: delivery outcomes are not reported back to the caller.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Nop queue swallows jobs (used for tests or disabled delivery).
type Nop struct{}

var _ Queue = (*Nop)(nil)

func (n *Nop) Enqueue(ctx context.Context, job Job) error { return nil }

// Recorder keeps enqueued jobs in memory. Useful for previews and tests.
type Recorder struct {
	mu   sync.Mutex
	Jobs []Job
}

var _ Queue = (*Recorder)(nil)

func (r *Recorder) Enqueue(ctx context.Context, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Jobs = append(r.Jobs, job)
	return nil
}

// Snapshot returns a copy of the recorded jobs.
func (r *Recorder) Snapshot() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Job, len(r.Jobs))
	copy(out, r.Jobs)
	return out
}
