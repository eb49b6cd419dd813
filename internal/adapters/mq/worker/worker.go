// Package worker runs reload requests against the service, one at a time.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/pkg/logger"
	"github.com/okian/levelboard/pkg/metrics"
)

// Reloader rebuilds and publishes the snapshot.
type Reloader interface {
	Reload(ctx context.Context, req model.ReloadRequest) error
}

// Queue defines how the worker receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.ReloadRequest
}

// Worker processes reload requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the reload in progress, if any.
	Shutdown(ctx context.Context) error
}

// ReloadWorker is the single writer of the snapshot store. Running exactly
// one keeps reloads serialized.
type ReloadWorker struct {
	queue    Queue
	reloader Reloader
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewReloadWorker creates a worker with configuration options.
func NewReloadWorker(queue Queue, reloader Reloader, opts ...Option) *ReloadWorker {
	w := &ReloadWorker{
		queue:    queue,
		reloader: reloader,
		name:     "reload-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "reload-worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *ReloadWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, req); err != nil {
				w.logger.Error(ctx, "reload failed, keeping previous snapshot",
					logger.String("request_id", req.ID),
					logger.String("trigger", req.Trigger),
					logger.Error(err),
				)
			}
		}
	}
}

// Done is closed when Run returns.
func (w *ReloadWorker) Done() <-chan struct{} { return w.done }

// Shutdown implements Worker.Shutdown. It is safe to call more than once.
func (w *ReloadWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *ReloadWorker) process(ctx context.Context, req model.ReloadRequest) error {
	start := time.Now()
	w.logger.Debug(ctx, "reloading",
		logger.String("request_id", req.ID),
		logger.String("trigger", req.Trigger),
		logger.Duration("queued_for", start.Sub(req.At)),
	)
	if err := w.reloader.Reload(ctx, req); err != nil {
		metrics.RecordReloadError()
		return fmt.Errorf("reload %s: %w", req.ID, err)
	}
	w.logger.Info(ctx, "reload finished",
		logger.String("request_id", req.ID),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
