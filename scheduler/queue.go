package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/cyclekit/logger"
)

// Queue is a real-time Scheduler. Timers run on the runtime's timer heap and
// hand their callbacks to a single-worker pool, so every callback scheduled
// through the same Queue runs on one ordered queue, never concurrently with
// another.
type Queue struct {
	pool pond.Pool
	ctx  context.Context //nolint:containedctx
}

// QueueOption configures a Queue.
type QueueOption func(*queueOptions)

type queueOptions struct {
	ctx       context.Context //nolint:containedctx
	queueSize int
}

// WithContext sets the context used for logging dropped callbacks and for
// the pool's lifetime. Cancelling it stops the Queue from accepting work.
func WithContext(ctx context.Context) QueueOption {
	return func(o *queueOptions) {
		o.ctx = ctx
	}
}

// WithQueueSize bounds the number of callbacks waiting for the worker.
// Zero (the default) means unbounded.
func WithQueueSize(size int) QueueOption {
	return func(o *queueOptions) {
		o.queueSize = size
	}
}

// NewQueue creates a Queue backed by a pool with exactly one worker.
func NewQueue(opts ...QueueOption) *Queue {
	options := queueOptions{ctx: context.Background()}
	for _, opt := range opts {
		opt(&options)
	}

	poolOpts := []pond.Option{pond.WithContext(options.ctx)}
	if options.queueSize > 0 {
		poolOpts = append(poolOpts, pond.WithQueueSize(options.queueSize))
	}

	logger.Get(options.ctx).Debug("Initializing scheduler queue", "queue_size", options.queueSize)

	return &Queue{
		pool: pond.NewPool(1, poolOpts...),
		ctx:  options.ctx,
	}
}

// After schedules f to run on the queue's worker once d has elapsed.
func (q *Queue) After(d time.Duration, f func()) Timer { //nolint:ireturn
	return time.AfterFunc(d, func() {
		err := q.pool.Go(f)
		if err == nil {
			return
		}

		if errors.Is(err, pond.ErrPoolStopped) || errors.Is(err, context.Canceled) {
			logger.Get(q.ctx).Debug("Scheduler queue stopped, dropping callback", "delay", d)

			return
		}

		logger.Get(q.ctx).Warn("Unable to enqueue scheduled callback", "delay", d, "error", err)
	})
}

// Stop waits for queued callbacks to finish and refuses new ones. Timers that
// fire afterwards are dropped.
func (q *Queue) Stop() {
	slog.Debug("Stopping scheduler queue")
	q.pool.StopAndWait()
	slog.Debug("Scheduler queue stopped")
}

// Stopped reports whether Stop has been called or the context was cancelled.
func (q *Queue) Stopped() bool {
	return q.pool.Stopped()
}
