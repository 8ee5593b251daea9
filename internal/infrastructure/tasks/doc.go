// Package tasks provides supervised fire-and-forget background execution.
//
// Index refreshes and pool replenishment run detached from their
// triggering request: no cancellation token, no retry, no backoff. A
// failure is logged and the task ends; a later staleness check or claim
// simply triggers another attempt.
package tasks
