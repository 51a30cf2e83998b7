// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

// TaskState represents the state of a Task within the A2A protocol.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been submitted and not yet
	// picked up for processing.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateInputRequired indicates the agent needs more input from the
	// caller before processing can continue.
	TaskStateInputRequired TaskState = "input-required"

	// TaskStateCompleted indicates the task finished successfully. Terminal.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task was canceled. Terminal.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task failed. Terminal.
	TaskStateFailed TaskState = "failed"

	// TaskStateUnknown is the fallback for state values this implementation
	// does not recognize on deserialization. Never produced internally.
	TaskStateUnknown TaskState = "unknown"
)

// Known reports whether the state is one this implementation produces.
func (s TaskState) Known() bool {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired,
		TaskStateCompleted, TaskStateCanceled, TaskStateFailed:
		return true
	}
	return false
}

// Terminal reports whether the state is terminal. No further transition is
// valid once a terminal state is reached.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed:
		return true
	}
	return false
}

// UnmarshalJSON implements [json.Unmarshaler]. Unrecognized state values
// decode to [TaskStateUnknown] rather than failing.
func (s *TaskState) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("unmarshal task state: %w", err)
	}
	state := TaskState(value)
	if !state.Known() {
		state = TaskStateUnknown
	}
	*s = state
	return nil
}

// TaskStatus represents the status of a task at a specific point in time.
type TaskStatus struct {
	State TaskState `json:"state"`

	// Message is the agent message associated with this status, if any.
	Message *Message `json:"message,omitzero"`

	// Timestamp is the RFC 3339 time at which the status was recorded.
	Timestamp string `json:"timestamp"`
}

// NewTaskStatus creates a TaskStatus for the given state, stamped with the
// current time.
func NewTaskStatus(state TaskState, message *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Task represents a unit of work in the A2A protocol.
//
// Invariants maintained by the server packages:
//   - ID is immutable for the task's lifetime.
//   - History is append-only; prior entries are never mutated or removed.
//   - Status.State transitions only through the lifecycle engine.
//   - Once the state is terminal, history and artifacts are frozen.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitzero"`
	Status    TaskStatus     `json:"status"`
	History   []*Message     `json:"history,omitzero"`
	Artifacts []*Artifact    `json:"artifacts,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Task is valid.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if !t.Status.State.Known() && t.Status.State != TaskStateUnknown {
		return fmt.Errorf("invalid task state: %q", t.Status.State)
	}
	for i, message := range t.History {
		if message == nil {
			return fmt.Errorf("history message at index %d cannot be nil", i)
		}
		if err := message.Validate(); err != nil {
			return fmt.Errorf("history message at index %d is invalid: %w", i, err)
		}
	}
	for i, artifact := range t.Artifacts {
		if artifact == nil {
			return fmt.Errorf("artifact at index %d cannot be nil", i)
		}
		if err := artifact.Validate(); err != nil {
			return fmt.Errorf("artifact at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewTask creates a new Task in the "submitted" state with the given message
// as the first history entry. If taskID is empty a new UUID is generated.
func NewTask(taskID, sessionID string, message *Message) (*Task, error) {
	if message == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if err := message.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	if taskID == "" {
		taskID = uuid.NewString()
	}

	return &Task{
		ID:        taskID,
		SessionID: sessionID,
		Status:    NewTaskStatus(TaskStateSubmitted, nil),
		History:   []*Message{message},
	}, nil
}
