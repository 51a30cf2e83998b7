// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"sync"

	"github.com/a2a-go/a2a"
)

// InMemoryTaskStore provides a thread-safe in-memory implementation of
// [TaskStore]. Each task ID owns its own lock, so mutations of distinct
// tasks run in parallel while mutations of the same task are serialized.
// Tasks are retained until the store is closed; there is no eviction.
type InMemoryTaskStore struct {
	mu      sync.Mutex
	entries map[string]*taskEntry
}

// taskEntry holds one task together with the lock serializing its mutation.
// task is nil for an entry whose first creation mutation is still in flight.
type taskEntry struct {
	mu   sync.Mutex
	task *a2a.Task
}

var _ TaskStore = (*InMemoryTaskStore)(nil)

// NewInMemoryTaskStore creates a new InMemoryTaskStore.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		entries: make(map[string]*taskEntry),
	}
}

// Get implements [TaskStore].
func (s *InMemoryTaskStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	entry, ok := s.entries[taskID]
	s.mu.Unlock()
	if !ok {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.task == nil {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}
	return copyTask(entry.task), nil
}

// Upsert implements [TaskStore]. The mutator runs under the task's lock and
// receives a private copy of the stored task, or nil if the task does not
// exist yet. Only the entry's own lock is held across the mutator, so slow
// mutators do not block access to other tasks.
func (s *InMemoryTaskStore) Upsert(ctx context.Context, taskID string, fn Mutator) (*a2a.Task, error) {
	if taskID == "" {
		return nil, TaskValidationError{TaskID: taskID, Msg: "task ID cannot be empty"}
	}

	entry := s.lockEntry(taskID)
	defer entry.mu.Unlock()

	if err := ctx.Err(); err != nil {
		if entry.task == nil {
			s.dropIfEmpty(taskID, entry)
		}
		return nil, err
	}

	var current *a2a.Task
	if entry.task != nil {
		current = copyTask(entry.task)
	}

	updated, err := fn(current)
	if err != nil {
		if entry.task == nil {
			s.dropIfEmpty(taskID, entry)
		}
		return nil, err
	}
	if updated == nil {
		if entry.task == nil {
			s.dropIfEmpty(taskID, entry)
		}
		return nil, TaskValidationError{TaskID: taskID, Msg: "mutator returned nil task"}
	}
	if updated.ID != taskID {
		if entry.task == nil {
			s.dropIfEmpty(taskID, entry)
		}
		return nil, TaskValidationError{TaskID: taskID, Msg: "mutator changed task ID to " + updated.ID}
	}
	if err := updated.Validate(); err != nil {
		if entry.task == nil {
			s.dropIfEmpty(taskID, entry)
		}
		return nil, TaskValidationError{TaskID: taskID, Msg: err.Error()}
	}

	entry.task = copyTask(updated)
	return copyTask(entry.task), nil
}

// lockEntry returns the entry for taskID with its lock held, creating the
// entry when absent. A failed creation may delete an entry while another
// goroutine is parked on its lock, so after acquiring the lock the entry is
// verified to still be the one in the map; a stale entry triggers a fresh
// lookup, otherwise a waiter could write its task into an orphaned entry
// that Get would never see.
func (s *InMemoryTaskStore) lockEntry(taskID string) *taskEntry {
	for {
		s.mu.Lock()
		entry, ok := s.entries[taskID]
		if !ok {
			entry = &taskEntry{}
			s.entries[taskID] = entry
		}
		s.mu.Unlock()

		entry.mu.Lock()
		s.mu.Lock()
		live := s.entries[taskID] == entry
		s.mu.Unlock()
		if live {
			return entry
		}
		entry.mu.Unlock()
	}
}

// dropIfEmpty removes the entry for taskID if it still holds no task, so a
// failed creation does not leave a phantom entry behind. The caller must
// hold entry.mu.
func (s *InMemoryTaskStore) dropIfEmpty(taskID string, entry *taskEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[taskID]; ok && cur == entry && entry.task == nil {
		delete(s.entries, taskID)
	}
}

// Close implements [TaskStore].
func (s *InMemoryTaskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*taskEntry)
	return nil
}

// copyTask returns a deep copy of the task so callers and the store never
// share mutable state.
func copyTask(t *a2a.Task) *a2a.Task {
	if t == nil {
		return nil
	}
	copied := &a2a.Task{
		ID:        t.ID,
		SessionID: t.SessionID,
		Status: a2a.TaskStatus{
			State:     t.Status.State,
			Message:   copyMessage(t.Status.Message),
			Timestamp: t.Status.Timestamp,
		},
		Metadata: copyMetadata(t.Metadata),
	}
	if t.History != nil {
		copied.History = make([]*a2a.Message, len(t.History))
		for i, msg := range t.History {
			copied.History[i] = copyMessage(msg)
		}
	}
	if t.Artifacts != nil {
		copied.Artifacts = make([]*a2a.Artifact, len(t.Artifacts))
		for i, artifact := range t.Artifacts {
			copied.Artifacts[i] = copyArtifact(artifact)
		}
	}
	return copied
}

func copyMessage(m *a2a.Message) *a2a.Message {
	if m == nil {
		return nil
	}
	return &a2a.Message{
		Role:     m.Role,
		Parts:    copyParts(m.Parts),
		Metadata: copyMetadata(m.Metadata),
	}
}

func copyArtifact(a *a2a.Artifact) *a2a.Artifact {
	if a == nil {
		return nil
	}
	copied := &a2a.Artifact{
		Name:        a.Name,
		Description: a.Description,
		Parts:       copyParts(a.Parts),
		Index:       a.Index,
		Metadata:    copyMetadata(a.Metadata),
	}
	if a.Append != nil {
		v := *a.Append
		copied.Append = &v
	}
	if a.LastChunk != nil {
		v := *a.LastChunk
		copied.LastChunk = &v
	}
	return copied
}

func copyParts(parts []*a2a.PartWrapper) []*a2a.PartWrapper {
	if parts == nil {
		return nil
	}
	copied := make([]*a2a.PartWrapper, len(parts))
	for i, pw := range parts {
		copied[i] = copyPartWrapper(pw)
	}
	return copied
}

func copyPartWrapper(pw *a2a.PartWrapper) *a2a.PartWrapper {
	if pw == nil {
		return nil
	}
	switch p := pw.Part().(type) {
	case *a2a.TextPart:
		copied := *p
		copied.Metadata = copyMetadata(p.Metadata)
		return a2a.NewPartWrapper(&copied)
	case *a2a.FilePart:
		copied := *p
		copied.Metadata = copyMetadata(p.Metadata)
		return a2a.NewPartWrapper(&copied)
	case *a2a.DataPart:
		copied := *p
		copied.Metadata = copyMetadata(p.Metadata)
		copied.Data = copyMetadata(p.Data)
		return a2a.NewPartWrapper(&copied)
	default:
		return a2a.NewPartWrapper(p)
	}
}

func copyMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	copied := make(map[string]any, len(m))
	for k, v := range m {
		copied[k] = v
	}
	return copied
}
