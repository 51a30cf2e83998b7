// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"strings"
)

// Role represents the role of a message sender in the A2A protocol.
type Role string

// Role constants for message senders.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message represents one turn in the exchange between a user and an agent.
// Messages are immutable once constructed; a task's history is append-only.
type Message struct {
	Role     Role           `json:"role"`
	Parts    []*PartWrapper `json:"parts"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Message is valid.
func (m Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAgent {
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if len(m.Parts) == 0 {
		return fmt.Errorf("message must contain at least one part")
	}
	for i, part := range m.Parts {
		if err := part.Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewMessage creates a new Message with the given role and parts.
func NewMessage(role Role, parts ...Part) (*Message, error) {
	wrapped, err := WrapParts(parts...)
	if err != nil {
		return nil, err
	}
	msg := &Message{
		Role:  role,
		Parts: wrapped,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// NewUserTextMessage creates a new user message containing a single TextPart.
func NewUserTextMessage(text string) (*Message, error) {
	if text == "" {
		return nil, fmt.Errorf("text content cannot be empty")
	}
	return NewMessage(RoleUser, NewTextPart(text))
}

// NewAgentTextMessage creates a new agent message containing a single TextPart.
func NewAgentTextMessage(text string) (*Message, error) {
	if text == "" {
		return nil, fmt.Errorf("text content cannot be empty")
	}
	return NewMessage(RoleAgent, NewTextPart(text))
}

// GetTextParts extracts text content from all TextPart objects in a list of
// wrapped parts. Non-text parts are skipped.
func GetTextParts(parts []*PartWrapper) []string {
	var texts []string
	for _, part := range parts {
		if tp, ok := part.Part().(*TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return texts
}

// GetMessageText extracts and joins all text content from a Message's parts
// using the given delimiter. Returns an empty string if the message has no
// text parts.
func GetMessageText(message *Message, delimiter string) string {
	if message == nil {
		return ""
	}
	return strings.Join(GetTextParts(message.Parts), delimiter)
}
