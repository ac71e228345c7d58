// Package tasks orchestrates multi-platform publish tasks with real-time progress reporting.
//
// # Core Operations
//
// The [Orchestrator] owns the lifecycle of one publish task:
//
//  1. [Orchestrator.Submit] : validate the request, persist the task, fan out
//     one runner per selected account, wait one bounded round for every
//     runner's initial outcome, and aggregate the per-platform results into
//     the task's final status.
//
//  2. [Orchestrator.Cancel] : stop a task mid-flight. Entries already waiting
//     on the user or published are left untouched; entries still pending or
//     uploading are failed with the CANCELLED code. Browser windows are never
//     closed.
//
// Each (task, account) pair runs in its own goroutine and owns its
// [models.TaskPlatform] row exclusively: it resolves a browser session,
// invokes the automation driver under the per-runner time budget, and maps the
// driver's outcome onto the entry's forward-only state machine. A slow or hung
// platform never blocks the others; failures are captured per entry and never
// abort sibling runners.
//
// # Aggregation
//
// [models.AggregateStatus] reduces terminal entry statuses to the task status
// independently of completion order, keeping the rule unit-testable apart from
// the concurrency harness.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates. The
// [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default to
// prevent blocking.
//
// # Action Hints
//
// [Classify] is a pure mapping from (error code, session mode) to a
// human-actionable hint, used both live and when re-rendering history.
package tasks
