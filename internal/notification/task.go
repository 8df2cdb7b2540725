// Package notification delivers reply notices for threaded comments.
// The API process only enqueues; delivery happens on a worker pool,
// either in-process or in cmd/notify-worker behind a redis list.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
)

// Task is one reply notice addressed to the author of the parent comment.
type Task struct {
	RecipientProfileID int64  `json:"recipient_profile_id"`
	RecipientEmail     string `json:"recipient_email"`
	CommentID          int64  `json:"comment_id"`
	Subject            string `json:"subject"`
	Message            string `json:"message"`
}

// Dispatcher hands a task to the delivery side. Implementations must not
// wait for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, task Task) error
}

// Handler performs delivery of a single task.
type Handler interface {
	Handle(ctx context.Context, task Task) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, task Task) error

func (f HandlerFunc) Handle(ctx context.Context, task Task) error {
	return f(ctx, task)
}

func encodeTask(task Task) ([]byte, error) {
	b, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	return b, nil
}

func decodeTask(payload string) (Task, error) {
	var task Task
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return task, nil
}
