// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/a2a-go/a2a"
)

// DatabaseTaskStore provides a GORM-backed implementation of [TaskStore].
// Mutations are serialized per task ID with in-process locks, which makes
// the store safe for a single server instance; multi-instance deployments
// need an external coordination layer.
type DatabaseTaskStore struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ TaskStore = (*DatabaseTaskStore)(nil)

// NewDatabaseTaskStore creates a DatabaseTaskStore on top of an open GORM
// connection and migrates the task table.
func NewDatabaseTaskStore(db *gorm.DB) (*DatabaseTaskStore, error) {
	if db == nil {
		return nil, TaskStoreError{Operation: "init", Err: errors.New("db cannot be nil")}
	}
	if err := db.AutoMigrate(&TaskModel{}); err != nil {
		return nil, TaskStoreError{Operation: "migrate", Err: err}
	}
	return &DatabaseTaskStore{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Get implements [TaskStore].
func (s *DatabaseTaskStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	var model TaskModel
	err := s.db.WithContext(ctx).First(&model, "task_id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}
	if err != nil {
		return nil, TaskStoreError{Operation: "get", Err: err}
	}
	return model.ToTask(), nil
}

// Upsert implements [TaskStore].
func (s *DatabaseTaskStore) Upsert(ctx context.Context, taskID string, fn Mutator) (*a2a.Task, error) {
	if taskID == "" {
		return nil, TaskValidationError{TaskID: taskID, Msg: "task ID cannot be empty"}
	}

	lock := s.taskLock(taskID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var current *a2a.Task
	var model TaskModel
	err := s.db.WithContext(ctx).First(&model, "task_id = ?", taskID).Error
	switch {
	case err == nil:
		current = model.ToTask()
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first mutation for this ID, mutator sees nil
	default:
		return nil, TaskStoreError{Operation: "upsert read", Err: err}
	}

	updated, err := fn(current)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, TaskValidationError{TaskID: taskID, Msg: "mutator returned nil task"}
	}
	if updated.ID != taskID {
		return nil, TaskValidationError{TaskID: taskID, Msg: "mutator changed task ID to " + updated.ID}
	}
	if err := updated.Validate(); err != nil {
		return nil, TaskValidationError{TaskID: taskID, Msg: err.Error()}
	}

	if err := s.db.WithContext(ctx).Save(NewTaskModel(updated)).Error; err != nil {
		return nil, TaskStoreError{Operation: "upsert write", Err: err}
	}
	// Snapshot, so callers cannot alias the task the mutator still holds.
	return copyTask(updated), nil
}

// taskLock returns the mutex serializing mutation of the given task ID,
// creating it on first use. Locks are never removed; the map grows with the
// set of task IDs, matching the store's no-eviction retention.
func (s *DatabaseTaskStore) taskLock(taskID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[taskID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[taskID] = lock
	}
	return lock
}

// Close implements [TaskStore].
func (s *DatabaseTaskStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return TaskStoreError{Operation: "close", Err: err}
	}
	return sqlDB.Close()
}
