// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides storage for A2A tasks.
//
// A TaskStore is the single source of truth for task state. All writes go
// through Upsert, which serializes mutation per task ID while allowing
// mutations of distinct tasks to proceed in parallel. The lifecycle engine
// builds its read-modify-write transitions on top of this contract.
package task

import (
	"context"

	"github.com/a2a-go/a2a"
)

// Mutator transforms the stored task under the store's per-ID lock. The
// current argument is nil when no task exists for the addressed ID. The
// returned task replaces the stored one; returning an error aborts the
// mutation and leaves the store unchanged.
//
// The mutator may block (the lifecycle engine invokes the content generation
// capability inside it), so implementations must not hold any store-wide
// lock across the call.
type Mutator func(current *a2a.Task) (*a2a.Task, error)

// TaskStore defines the interface for task storage backends.
type TaskStore interface {
	// Get retrieves a snapshot of the task with the given ID. The returned
	// task is a deep copy; callers may freely modify it. Returns
	// [a2a.TaskNotFoundError] if no task exists.
	Get(ctx context.Context, taskID string) (*a2a.Task, error)

	// Upsert atomically reads, transforms, and writes the task with the
	// given ID. Concurrent Upserts for the same ID are serialized;
	// Upserts for distinct IDs may run in parallel. On success the
	// returned task is a deep copy of the newly stored state.
	Upsert(ctx context.Context, taskID string, fn Mutator) (*a2a.Task, error)

	// Close releases any resources held by the store.
	Close() error
}
