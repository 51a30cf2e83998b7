// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
)

// Artifact represents a generated output from a task, which can contain
// multiple parts. Artifacts are appended to a task in production order;
// Index is a monotonically increasing position assigned by the lifecycle
// engine, so that chunked artifact assembly stays well-defined even though
// streaming delivery is not part of this core.
type Artifact struct {
	Name        string         `json:"name,omitzero"`
	Description string         `json:"description,omitzero"`
	Parts       []*PartWrapper `json:"parts"`
	Index       int            `json:"index"`
	Append      *bool          `json:"append,omitzero"`
	LastChunk   *bool          `json:"lastChunk,omitzero"`
	Metadata    map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Artifact is valid.
func (a Artifact) Validate() error {
	if len(a.Parts) == 0 {
		return fmt.Errorf("artifact must contain at least one part")
	}
	if a.Index < 0 {
		return fmt.Errorf("artifact index cannot be negative")
	}
	for i, part := range a.Parts {
		if err := part.Validate(); err != nil {
			return fmt.Errorf("artifact part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewArtifact creates a new Artifact from a list of parts, a name, and an
// optional description. The artifact index is assigned when the lifecycle
// engine appends the artifact to a task.
func NewArtifact(name, description string, parts ...Part) (*Artifact, error) {
	wrapped, err := WrapParts(parts...)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:        name,
		Description: description,
		Parts:       wrapped,
	}, nil
}

// NewTextArtifact creates a new Artifact containing a single TextPart.
func NewTextArtifact(name, text, description string) (*Artifact, error) {
	if text == "" {
		return nil, fmt.Errorf("text content cannot be empty")
	}
	return NewArtifact(name, description, NewTextPart(text))
}

// NewDataArtifact creates a new Artifact containing a single DataPart.
func NewDataArtifact(name string, data map[string]any, description string) (*Artifact, error) {
	if data == nil {
		return nil, fmt.Errorf("data content cannot be nil")
	}
	return NewArtifact(name, description, NewDataPart(data))
}

// NewFileArtifact creates a new Artifact containing a single FilePart.
func NewFileArtifact(name string, file FileContent, description string) (*Artifact, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return NewArtifact(name, description, NewFilePart(file))
}
