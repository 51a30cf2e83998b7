// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/a2a-go/a2a"
)

func newTestTask(t *testing.T, taskID string) *a2a.Task {
	t.Helper()
	message, err := a2a.NewUserTextMessage("hello")
	if err != nil {
		t.Fatalf("NewUserTextMessage() error = %v", err)
	}
	task, err := a2a.NewTask(taskID, "session-1", message)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	return task
}

func TestInMemoryStoreGetNotFound(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	_, err := store.Get(context.Background(), "missing")
	var notFound a2a.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get() error = %v, want TaskNotFoundError", err)
	}
	if notFound.TaskID != "missing" {
		t.Errorf("TaskID = %q, want %q", notFound.TaskID, "missing")
	}
}

func TestInMemoryStoreUpsertCreatesTask(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()
	want := newTestTask(t, "task-1")

	stored, err := store.Upsert(ctx, "task-1", func(current *a2a.Task) (*a2a.Task, error) {
		if current != nil {
			t.Errorf("mutator received %+v, want nil for new task", current)
		}
		return want, nil
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("Upsert() result mismatch (-want +got):\n%s", diff)
	}

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestInMemoryStoreUpsertReturnsCopies(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	original := newTestTask(t, "task-1")
	stored, err := store.Upsert(ctx, "task-1", func(*a2a.Task) (*a2a.Task, error) {
		return original, nil
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Mutating the returned snapshot must not leak into the store.
	stored.Status.State = a2a.TaskStateFailed
	stored.History = append(stored.History, stored.History[0])

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status.State != a2a.TaskStateSubmitted {
		t.Errorf("State = %q after external mutation, want %q", got.Status.State, a2a.TaskStateSubmitted)
	}
	if len(got.History) != 1 {
		t.Errorf("History length = %d after external mutation, want 1", len(got.History))
	}
}

func TestInMemoryStoreUpsertMutatorError(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	wantErr := errors.New("rejected")
	_, err := store.Upsert(ctx, "task-1", func(*a2a.Task) (*a2a.Task, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Upsert() error = %v, want %v", err, wantErr)
	}

	// A failed creation must not leave a phantom task behind.
	var notFound a2a.TaskNotFoundError
	if _, err := store.Get(ctx, "task-1"); !errors.As(err, &notFound) {
		t.Errorf("Get() after failed creation error = %v, want TaskNotFoundError", err)
	}
}

func TestInMemoryStoreUpsertKeepsExistingOnError(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()
	want := newTestTask(t, "task-1")

	if _, err := store.Upsert(ctx, "task-1", func(*a2a.Task) (*a2a.Task, error) {
		return want, nil
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if _, err := store.Upsert(ctx, "task-1", func(*a2a.Task) (*a2a.Task, error) {
		return nil, errors.New("boom")
	}); err == nil {
		t.Fatal("Upsert() expected error, got nil")
	}

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("task changed by failed mutation (-want +got):\n%s", diff)
	}
}

func TestInMemoryStoreFailedCreationDoesNotOrphanWaiter(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	mutatorEntered := make(chan struct{})
	releaseMutator := make(chan struct{})
	failResult := make(chan error, 1)

	// First Upsert creates the entry and fails while a second Upsert for the
	// same ID is parked on the entry's lock. The failed creation removes the
	// entry; the waiter must not write its task into the removed one.
	go func() {
		_, err := store.Upsert(ctx, "task-1", func(*a2a.Task) (*a2a.Task, error) {
			close(mutatorEntered)
			<-releaseMutator
			return nil, errors.New("creation rejected")
		})
		failResult <- err
	}()

	<-mutatorEntered

	okResult := make(chan error, 1)
	go func() {
		_, err := store.Upsert(ctx, "task-1", func(current *a2a.Task) (*a2a.Task, error) {
			if current != nil {
				t.Errorf("mutator received %+v, want nil after failed creation", current)
			}
			return newTestTask(t, "task-1"), nil
		})
		okResult <- err
	}()

	// Let the second Upsert block on the entry lock before the failure path
	// deletes the entry.
	time.Sleep(50 * time.Millisecond)
	close(releaseMutator)

	if err := <-failResult; err == nil {
		t.Fatal("failing Upsert() returned nil error")
	}
	if err := <-okResult; err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() after successful Upsert error = %v", err)
	}
	if got.ID != "task-1" {
		t.Errorf("ID = %q, want %q", got.ID, "task-1")
	}
}

func TestInMemoryStoreUpsertRejectsIDChange(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	_, err := store.Upsert(context.Background(), "task-1", func(*a2a.Task) (*a2a.Task, error) {
		return newTestTask(t, "task-2"), nil
	})
	var validationErr TaskValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Upsert() error = %v, want TaskValidationError", err)
	}
}

func TestInMemoryStoreSerializesMutationsPerTask(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, "task-1", func(current *a2a.Task) (*a2a.Task, error) {
				if current == nil {
					return newTestTask(t, "task-1"), nil
				}
				message, err := a2a.NewUserTextMessage("another message")
				if err != nil {
					return nil, err
				}
				current.History = append(current.History, message)
				return current, nil
			})
			if err != nil {
				t.Errorf("Upsert() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	// One creation plus one append per remaining worker. Lost updates would
	// make the history shorter.
	if len(got.History) != workers {
		t.Errorf("History length = %d, want %d", len(got.History), workers)
	}
}

func TestInMemoryStoreParallelDistinctTasks(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()
	ctx := context.Background()

	const tasks = 16
	var wg sync.WaitGroup
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			taskID := fmt.Sprintf("task-%d", n)
			_, err := store.Upsert(ctx, taskID, func(*a2a.Task) (*a2a.Task, error) {
				return newTestTask(t, taskID), nil
			})
			if err != nil {
				t.Errorf("Upsert(%q) error = %v", taskID, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < tasks; i++ {
		taskID := fmt.Sprintf("task-%d", i)
		if _, err := store.Get(ctx, taskID); err != nil {
			t.Errorf("Get(%q) error = %v", taskID, err)
		}
	}
}

func TestCopyTaskIsDeep(t *testing.T) {
	original := newTestTask(t, "task-1")
	artifact, err := a2a.NewTextArtifact("result", "payload", "")
	if err != nil {
		t.Fatalf("NewTextArtifact() error = %v", err)
	}
	original.Artifacts = []*a2a.Artifact{artifact}
	original.Metadata = map[string]any{"source": "test"}

	copied := copyTask(original)
	if diff := cmp.Diff(original, copied); diff != "" {
		t.Fatalf("copy mismatch (-want +got):\n%s", diff)
	}

	copied.Status.State = a2a.TaskStateFailed
	copied.History = append(copied.History, copied.History[0])
	copied.Artifacts[0].Index = 7
	copied.Metadata["source"] = "mutated"

	if original.Status.State != a2a.TaskStateSubmitted {
		t.Errorf("State = %q after mutating copy, want %q", original.Status.State, a2a.TaskStateSubmitted)
	}
	if len(original.History) != 1 {
		t.Errorf("History length = %d after mutating copy, want 1", len(original.History))
	}
	if original.Artifacts[0].Index != 0 {
		t.Errorf("artifact Index = %d after mutating copy, want 0", original.Artifacts[0].Index)
	}
	if original.Metadata["source"] != "test" {
		t.Errorf("Metadata[source] = %v after mutating copy, want %q", original.Metadata["source"], "test")
	}
}

func TestInMemoryStoreUpsertCanceledContext(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upsert(ctx, "task-1", func(*a2a.Task) (*a2a.Task, error) {
		t.Error("mutator ran despite canceled context")
		return newTestTask(t, "task-1"), nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Upsert() error = %v, want context.Canceled", err)
	}
}
