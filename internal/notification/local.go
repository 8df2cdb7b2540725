package notification

import (
	"context"
	"time"
)

// PoolDispatcher delivers tasks on an in-process worker pool. It is used
// when no redis queue is configured.
type PoolDispatcher struct {
	pool    *WorkerPool
	handler Handler
	timeout time.Duration
}

func NewPoolDispatcher(pool *WorkerPool, handler Handler, timeout time.Duration) *PoolDispatcher {
	return &PoolDispatcher{pool: pool, handler: handler, timeout: timeout}
}

func (d *PoolDispatcher) Dispatch(ctx context.Context, task Task) error {
	return d.pool.Submit(ctx, func(poolCtx context.Context) error {
		jobCtx, cancel := context.WithTimeout(poolCtx, d.timeout)
		defer cancel()
		return d.handler.Handle(jobCtx, task)
	})
}
