// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/a2a-go/a2a"
)

// TaskModel is the GORM persistence model for a task. Structured fields are
// stored as JSON columns so the schema stays stable as the protocol types
// evolve.
type TaskModel struct {
	TaskID    string              `gorm:"column:task_id;primaryKey;size:255"`
	SessionID string              `gorm:"column:session_id;size:255;index"`
	Status    TaskStatusColumn    `gorm:"column:status;type:json"`
	History   MessageSliceColumn  `gorm:"column:history;type:json"`
	Artifacts ArtifactSliceColumn `gorm:"column:artifacts;type:json"`
	Metadata  MetadataColumn      `gorm:"column:metadata;type:json"`
	CreatedAt time.Time           `gorm:"column:created_at"`
	UpdatedAt time.Time           `gorm:"column:updated_at"`
}

// TableName implements the GORM Tabler interface.
func (TaskModel) TableName() string {
	return "a2a_tasks"
}

// ToTask converts the persistence model back to the protocol type.
func (m *TaskModel) ToTask() *a2a.Task {
	return &a2a.Task{
		ID:        m.TaskID,
		SessionID: m.SessionID,
		Status:    a2a.TaskStatus(m.Status),
		History:   []*a2a.Message(m.History),
		Artifacts: []*a2a.Artifact(m.Artifacts),
		Metadata:  map[string]any(m.Metadata),
	}
}

// NewTaskModel converts a protocol task into its persistence model.
func NewTaskModel(t *a2a.Task) *TaskModel {
	return &TaskModel{
		TaskID:    t.ID,
		SessionID: t.SessionID,
		Status:    TaskStatusColumn(t.Status),
		History:   MessageSliceColumn(t.History),
		Artifacts: ArtifactSliceColumn(t.Artifacts),
		Metadata:  MetadataColumn(t.Metadata),
	}
}

// TaskStatusColumn stores a TaskStatus as a JSON column.
type TaskStatusColumn a2a.TaskStatus

// Value implements [driver.Valuer].
func (c TaskStatusColumn) Value() (driver.Value, error) {
	return jsonColumnValue(a2a.TaskStatus(c))
}

// Scan implements [sql.Scanner].
func (c *TaskStatusColumn) Scan(value any) error {
	return jsonColumnScan(value, (*a2a.TaskStatus)(c))
}

// MessageSliceColumn stores a message history as a JSON column.
type MessageSliceColumn []*a2a.Message

// Value implements [driver.Valuer].
func (c MessageSliceColumn) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return jsonColumnValue([]*a2a.Message(c))
}

// Scan implements [sql.Scanner].
func (c *MessageSliceColumn) Scan(value any) error {
	return jsonColumnScan(value, (*[]*a2a.Message)(c))
}

// ArtifactSliceColumn stores a task's artifacts as a JSON column.
type ArtifactSliceColumn []*a2a.Artifact

// Value implements [driver.Valuer].
func (c ArtifactSliceColumn) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return jsonColumnValue([]*a2a.Artifact(c))
}

// Scan implements [sql.Scanner].
func (c *ArtifactSliceColumn) Scan(value any) error {
	return jsonColumnScan(value, (*[]*a2a.Artifact)(c))
}

// MetadataColumn stores a free-form metadata map as a JSON column.
type MetadataColumn map[string]any

// Value implements [driver.Valuer].
func (c MetadataColumn) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return jsonColumnValue(map[string]any(c))
}

// Scan implements [sql.Scanner].
func (c *MetadataColumn) Scan(value any) error {
	return jsonColumnScan(value, (*map[string]any)(c))
}

func jsonColumnValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal JSON column: %w", err)
	}
	return string(data), nil
}

func jsonColumnScan(value any, out any) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal JSON column: %w", err)
	}
	return nil
}
