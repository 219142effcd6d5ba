// Package util contains small helpers with no analytics-specific logic.
package util

import (
	"io"
)

// CleanupTasks accumulates teardown steps while a multi-stage constructor runs, so that
// a failure partway through can release everything built so far. Call Clear once
// construction has succeeded.
type CleanupTasks []func()

// AddCloser schedules c to be closed, ignoring the close error.
func (t *CleanupTasks) AddCloser(c io.Closer) {
	*t = append(*t, func() { _ = c.Close() })
}

// AddFunc schedules an arbitrary cleanup function.
func (t *CleanupTasks) AddFunc(f func()) {
	*t = append(*t, f)
}

// Clear discards the accumulated tasks without running them.
func (t *CleanupTasks) Clear() {
	*t = nil
}

// Run executes the accumulated tasks and clears the list.
func (t *CleanupTasks) Run() {
	for _, task := range *t {
		task()
	}
	*t = nil
}
