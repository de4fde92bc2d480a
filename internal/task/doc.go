// Package task manages fire-and-forget background work. It provides an
// in-memory queue and worker pool for the asynchronous side effects of the
// study flow (review-event logging, gamification profile persistence),
// ensuring they never block the learner. Execution is best-effort: failures
// and timeouts are logged and dropped, never surfaced or retried.
package task
