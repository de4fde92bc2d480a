package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// TaskTimeout bounds the execution of a single task. Tasks that exceed
	// it are cancelled and dropped silently, consistent with the
	// fire-and-forget policy for review logging and profile persistence.
	TaskTimeout time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
		TaskTimeout: 10 * time.Second,
	}
}

// Runner manages fire-and-forget background task processing. It owns an
// in-memory queue and a pool of workers. Nothing is persisted: a task that
// fails, times out, or is still queued at shutdown is logged and lost, which
// is the contract for best-effort side effects that must never block the
// learner's study flow.
type Runner struct {
	queue      *TaskQueue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewRunner creates a new Runner
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 1
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		queue:      NewTaskQueue(config.QueueSize, logger),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "task_runner"),
		errHandler: func(task Task, err error) {
			// Default error handler just logs the error
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a new task to the queue. It returns as soon as the task is
// buffered; callers never wait for execution. A full queue drops the task
// with an error the caller is expected to log and swallow.
func (r *Runner) Submit(task Task) error {
	return r.queue.Enqueue(task)
}

// Start initializes the worker pool and begins processing tasks
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop shuts down the task runner. In-flight tasks finish (bounded by the
// task timeout); queued tasks still buffered are drained and dropped.
func (r *Runner) Stop() {
	r.queue.Close()
	r.wg.Wait()
	r.cancelFunc()
}

// worker processes tasks from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.queue.GetChannel():
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}

			r.processTask(task, id)
		}
	}
}

// processTask handles execution of a single task with a bounded timeout
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	ctx, cancel := context.WithTimeout(context.Background(), r.config.TaskTimeout)
	defer cancel()

	logger.Debug("processing task")

	if err := task.Execute(ctx); err != nil {
		logger.Error("task execution failed", "error", err)
		r.errHandler(task, err)
		return
	}

	logger.Debug("task completed")
}
