package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeReviewLog represents the task type for persisting review events
	TaskTypeReviewLog = "review_log"

	// TaskTypeProfileSave represents the task type for persisting
	// gamification profiles
	TaskTypeProfileSave = "profile_save"
)

// Task represents a unit of fire-and-forget background work. Tasks in this
// application are dispatch-and-detach: the caller enqueues and returns
// immediately, workers execute with a bounded timeout, and a failure is
// logged and dropped rather than retried or surfaced.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}
