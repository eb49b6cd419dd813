// Package queue buffers reload requests between their producers and the
// reload worker.
//
// A reload always reads the latest feeds, so once the buffer is full a new
// request adds nothing: it is coalesced into the pending ones instead of
// blocking the caller.
package queue

import (
	"context"
	"sync"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/pkg/metrics"
)

const defaultQueueCapacity = 4

// Outcome reports what happened to an enqueued request.
type Outcome string

// Enqueue outcomes.
const (
	OutcomeQueued    Outcome = "queued"
	OutcomeCoalesced Outcome = "coalesced"
	OutcomeRejected  Outcome = "rejected"
)

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request without blocking. A full queue coalesces the
	// request; a closed queue or canceled context rejects it with an error.
	Enqueue(ctx context.Context, r model.ReloadRequest) (Outcome, error)

	// Dequeue returns a channel that yields requests until the queue is closed.
	Dequeue(ctx context.Context) <-chan model.ReloadRequest

	// Len returns the current number of pending requests.
	Len(ctx context.Context) int

	// Close stops accepting requests and closes the dequeue channel.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	requests chan model.ReloadRequest
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.requests = make(chan model.ReloadRequest, q.capacity)
	metrics.UpdateReloadQueueSize(0)
	return q
}

// Enqueue implements Queue.Enqueue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r model.ReloadRequest) (Outcome, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordReloadRequest(r.Trigger, string(OutcomeRejected))
		return OutcomeRejected, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordReloadRequest(r.Trigger, string(OutcomeRejected))
		return OutcomeRejected, err
	}

	select {
	case q.requests <- r:
		metrics.RecordReloadRequest(r.Trigger, string(OutcomeQueued))
		metrics.UpdateReloadQueueSize(len(q.requests))
		return OutcomeQueued, nil
	default:
		metrics.RecordReloadRequest(r.Trigger, string(OutcomeCoalesced))
		return OutcomeCoalesced, nil
	}
}

// Dequeue implements Queue.Dequeue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan model.ReloadRequest {
	out := make(chan model.ReloadRequest)
	go func() {
		defer close(out)
		for r := range q.requests {
			select {
			case out <- r:
				metrics.UpdateReloadQueueSize(len(q.requests))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len implements Queue.Len.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.requests)
}

// Close implements Queue.Close. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.requests)
	q.closed = true
	return nil
}
