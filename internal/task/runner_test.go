package task_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/task"
)

// testTask is a configurable task for exercising the runner.
type testTask struct {
	id       uuid.UUID
	taskType string
	execute  func(ctx context.Context) error
}

func newTestTask(execute func(ctx context.Context) error) *testTask {
	return &testTask{
		id:       uuid.New(),
		taskType: "test",
		execute:  execute,
	}
}

func (t *testTask) ID() uuid.UUID { return t.id }

func (t *testTask) Type() string { return t.taskType }

func (t *testTask) Execute(ctx context.Context) error { return t.execute(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunnerExecutesSubmittedTasks(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: 2,
		QueueSize:   10,
		TaskTimeout: time.Second,
	}, discardLogger())
	runner.Start()
	defer runner.Stop()

	const count = 5
	var wg sync.WaitGroup
	wg.Add(count)

	var mu sync.Mutex
	executed := 0

	for i := 0; i < count; i++ {
		err := runner.Submit(newTestTask(func(ctx context.Context) error {
			mu.Lock()
			executed++
			mu.Unlock()
			wg.Done()
			return nil
		}))
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, count, executed)
}

func TestRunnerReportsTaskFailures(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: 1,
		QueueSize:   1,
		TaskTimeout: time.Second,
	}, discardLogger())

	failed := make(chan error, 1)
	runner.SetErrorHandler(func(_ task.Task, err error) {
		failed <- err
	})
	runner.Start()
	defer runner.Stop()

	taskErr := errors.New("boom")
	require.NoError(t, runner.Submit(newTestTask(func(ctx context.Context) error {
		return taskErr
	})))

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, taskErr)
	case <-time.After(5 * time.Second):
		t.Fatal("error handler was not invoked")
	}
}

func TestRunnerBoundsTaskExecution(t *testing.T) {
	t.Parallel()

	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: 1,
		QueueSize:   1,
		TaskTimeout: 50 * time.Millisecond,
	}, discardLogger())

	failed := make(chan error, 1)
	runner.SetErrorHandler(func(_ task.Task, err error) {
		failed <- err
	})
	runner.Start()
	defer runner.Stop()

	require.NoError(t, runner.Submit(newTestTask(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("slow task was not cancelled")
	}
}

func TestQueueLimits(t *testing.T) {
	t.Parallel()

	t.Run("full queue rejects submissions", func(t *testing.T) {
		t.Parallel()

		// Runner not started: nothing drains the queue.
		runner := task.NewRunner(task.RunnerConfig{
			WorkerCount: 1,
			QueueSize:   1,
			TaskTimeout: time.Second,
		}, discardLogger())

		noop := func(ctx context.Context) error { return nil }
		require.NoError(t, runner.Submit(newTestTask(noop)))

		err := runner.Submit(newTestTask(noop))
		assert.ErrorIs(t, err, task.ErrQueueFull)
	})

	t.Run("closed queue rejects submissions", func(t *testing.T) {
		t.Parallel()

		queue := task.NewTaskQueue(1, discardLogger())
		queue.Close()

		err := queue.Enqueue(newTestTask(func(ctx context.Context) error { return nil }))
		assert.ErrorIs(t, err, task.ErrQueueClosed)
	})
}
