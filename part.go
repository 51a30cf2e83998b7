// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"reflect"

	"github.com/go-json-experiment/json"
)

// Part type discriminator values used on the wire.
const (
	PartTypeText = "text"
	PartTypeFile = "file"
	PartTypeData = "data"
)

// Part represents one content fragment of a message or artifact.
// It can be a text part, a file part, or a structured data part.
type Part interface {
	GetType() string
	GetMetadata() map[string]any
	Validate() error
}

// TextPart represents a plain text segment.
type TextPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTextPart creates a new TextPart.
func NewTextPart(text string) *TextPart {
	return &TextPart{
		Type: PartTypeText,
		Text: text,
	}
}

// GetType returns the part type.
func (tp TextPart) GetType() string {
	return tp.Type
}

// GetMetadata returns the part metadata.
func (tp TextPart) GetMetadata() map[string]any {
	return tp.Metadata
}

// Validate ensures the TextPart is valid.
func (tp TextPart) Validate() error {
	if tp.Type != PartTypeText {
		return fmt.Errorf("text part type must be %q, got %q", PartTypeText, tp.Type)
	}
	if tp.Text == "" {
		return fmt.Errorf("text part text cannot be empty")
	}
	return nil
}

// FileContent represents the content of a file, either as base64 encoded
// bytes or as a URI.
type FileContent struct {
	Name     string `json:"name,omitzero"`
	MimeType string `json:"mimeType,omitzero"`
	Bytes    string `json:"bytes,omitzero"`
	URI      string `json:"uri,omitzero"`
}

// Validate ensures the FileContent carries exactly one content source.
func (fc FileContent) Validate() error {
	if fc.Bytes == "" && fc.URI == "" {
		return fmt.Errorf("file content must have either bytes or uri")
	}
	if fc.Bytes != "" && fc.URI != "" {
		return fmt.Errorf("file content cannot have both bytes and uri")
	}
	return nil
}

// FilePart represents a file segment.
type FilePart struct {
	Type     string         `json:"type"`
	File     FileContent    `json:"file"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewFilePart creates a new FilePart.
func NewFilePart(file FileContent) *FilePart {
	return &FilePart{
		Type: PartTypeFile,
		File: file,
	}
}

// GetType returns the part type.
func (fp FilePart) GetType() string {
	return fp.Type
}

// GetMetadata returns the part metadata.
func (fp FilePart) GetMetadata() map[string]any {
	return fp.Metadata
}

// Validate ensures the FilePart is valid.
func (fp FilePart) Validate() error {
	if fp.Type != PartTypeFile {
		return fmt.Errorf("file part type must be %q, got %q", PartTypeFile, fp.Type)
	}
	return fp.File.Validate()
}

// DataPart represents a structured data (JSON) segment.
type DataPart struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewDataPart creates a new DataPart.
func NewDataPart(data map[string]any) *DataPart {
	return &DataPart{
		Type: PartTypeData,
		Data: data,
	}
}

// GetType returns the part type.
func (dp DataPart) GetType() string {
	return dp.Type
}

// GetMetadata returns the part metadata.
func (dp DataPart) GetMetadata() map[string]any {
	return dp.Metadata
}

// Validate ensures the DataPart is valid.
func (dp DataPart) Validate() error {
	if dp.Type != PartTypeData {
		return fmt.Errorf("data part type must be %q, got %q", PartTypeData, dp.Type)
	}
	if dp.Data == nil {
		return fmt.Errorf("data part data cannot be nil")
	}
	return nil
}

// PartWrapper wraps a Part to enable JSON serialization of the union.
// On the wire a part is a flat object discriminated by its "type" field.
type PartWrapper struct {
	part Part
}

// NewPartWrapper creates a new PartWrapper.
func NewPartWrapper(part Part) *PartWrapper {
	return &PartWrapper{part: part}
}

// Part returns the wrapped part.
func (pw *PartWrapper) Part() Part {
	if pw == nil {
		return nil
	}
	return pw.part
}

// Equal reports whether two wrapped parts are equal. It is picked up by
// go-cmp when diffing messages and artifacts.
func (pw *PartWrapper) Equal(other *PartWrapper) bool {
	if pw == nil || other == nil {
		return pw == other
	}
	return reflect.DeepEqual(pw.part, other.part)
}

// MarshalJSON implements [json.Marshaler].
func (pw PartWrapper) MarshalJSON() ([]byte, error) {
	if pw.part == nil {
		return nil, fmt.Errorf("cannot marshal nil part")
	}
	return json.Marshal(pw.part)
}

// UnmarshalJSON implements [json.Unmarshaler]. The concrete part type is
// selected by the "type" discriminator field.
func (pw *PartWrapper) UnmarshalJSON(data []byte) error {
	var discriminator struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &discriminator); err != nil {
		return fmt.Errorf("unmarshal part type: %w", err)
	}

	switch discriminator.Type {
	case PartTypeText:
		var tp TextPart
		if err := json.Unmarshal(data, &tp); err != nil {
			return fmt.Errorf("unmarshal text part: %w", err)
		}
		pw.part = &tp
	case PartTypeFile:
		var fp FilePart
		if err := json.Unmarshal(data, &fp); err != nil {
			return fmt.Errorf("unmarshal file part: %w", err)
		}
		pw.part = &fp
	case PartTypeData:
		var dp DataPart
		if err := json.Unmarshal(data, &dp); err != nil {
			return fmt.Errorf("unmarshal data part: %w", err)
		}
		pw.part = &dp
	default:
		return fmt.Errorf("unknown part type: %q", discriminator.Type)
	}

	return nil
}

// Validate validates the wrapped part.
func (pw *PartWrapper) Validate() error {
	if pw == nil || pw.part == nil {
		return fmt.Errorf("part wrapper cannot contain nil part")
	}
	return pw.part.Validate()
}

// WrapParts wraps a list of parts for JSON serialization, validating each.
func WrapParts(parts ...Part) ([]*PartWrapper, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("at least one part is required")
	}
	wrapped := make([]*PartWrapper, len(parts))
	for i, part := range parts {
		if part == nil {
			return nil, fmt.Errorf("part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return nil, fmt.Errorf("part at index %d is invalid: %w", i, err)
		}
		wrapped[i] = NewPartWrapper(part)
	}
	return wrapped, nil
}
