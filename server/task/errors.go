// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"fmt"
)

// TaskStoreError represents a failure of the storage backend itself, as
// opposed to a protocol-level error such as a missing task.
type TaskStoreError struct {
	Operation string
	Err       error
}

// Error returns the error message.
func (e TaskStoreError) Error() string {
	return fmt.Sprintf("task store %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e TaskStoreError) Unwrap() error {
	return e.Err
}

// TaskValidationError indicates a mutator produced a task that fails
// validation or violates a store invariant.
type TaskValidationError struct {
	TaskID string
	Msg    string
}

// Error returns the error message.
func (e TaskValidationError) Error() string {
	return fmt.Sprintf("invalid task %s: %s", e.TaskID, e.Msg)
}
