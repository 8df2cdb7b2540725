package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueue is the redis list notifications are pushed to.
const DefaultQueue = "aniverse:notifications"

// RedisQueue is a FIFO of tasks stored in a redis list: producers LPUSH and
// the consumer BRPOPs. Delivery is at-least-once from the producer's view.
type RedisQueue struct {
	client  *redis.Client
	key     string
	pollFor time.Duration
	logger  *slog.Logger
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewRedisQueue(client *redis.Client, key string, logger *slog.Logger) *RedisQueue {
	if key == "" {
		key = DefaultQueue
	}
	return &RedisQueue{
		client:  client,
		key:     key,
		pollFor: 5 * time.Second,
		logger:  logger,
	}
}

// Dispatch pushes the task onto the queue.
func (q *RedisQueue) Dispatch(ctx context.Context, task Task) error {
	payload, err := encodeTask(task)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// Consume pops tasks until ctx is cancelled and hands each one to the pool.
// Malformed payloads are logged and dropped.
func (q *RedisQueue) Consume(ctx context.Context, pool *WorkerPool, handler Handler, timeout time.Duration) error {
	q.logger.Info("consuming notification queue", "queue", q.key)
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, q.pollFor, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			q.logger.Error("queue pop failed", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		// BRPOP replies with [key, value]
		task, err := decodeTask(res[1])
		if err != nil {
			q.logger.Warn("dropping malformed notification", "error", err)
			continue
		}

		err = pool.Submit(ctx, func(poolCtx context.Context) error {
			jobCtx, cancel := context.WithTimeout(poolCtx, timeout)
			defer cancel()
			return handler.Handle(jobCtx, task)
		})
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrPoolClosed) {
				return nil
			}
			return fmt.Errorf("submit notification: %w", err)
		}
	}
}
