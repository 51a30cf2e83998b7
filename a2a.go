// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides Go types for the Agent-to-Agent (A2A) protocol.
//
// The package contains the data model exchanged between A2A clients and
// servers (tasks, messages, parts, artifacts), the JSON-RPC 2.0 envelope
// used on the wire, and the protocol error taxonomy. The server-side task
// lifecycle engine lives in the server package; the caller-side request
// builder lives in the client package.
package a2a

import "fmt"

// Version is the current version of the A2A protocol implementation.
const Version = "0.1.0"

// AgentCard represents metadata about an agent, including its capabilities.
// It is served at [AgentCardWellKnownPath] and consumed by clients to
// discover how to reach an agent.
type AgentCard struct {
	Name         string         `json:"name"`
	URL          string         `json:"url"`
	Version      string         `json:"version"`
	Description  string         `json:"description,omitzero"`
	Provider     *AgentProvider `json:"provider,omitzero"`
	Capabilities []Capability   `json:"capabilities,omitzero"`
	Skills       []AgentSkill   `json:"skills,omitzero"`
}

// Validate ensures the AgentCard is valid.
func (a AgentCard) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("agent card name cannot be empty")
	}
	if a.URL == "" {
		return fmt.Errorf("agent card URL cannot be empty")
	}
	if a.Version == "" {
		return fmt.Errorf("agent card version cannot be empty")
	}
	return nil
}

// AgentProvider represents the service provider of an agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitzero"`
}

// Capability represents a specific capability that an agent has.
type Capability struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitzero"`
	Models      []string `json:"models,omitzero"`
}

// AgentSkill describes a unit of capability an agent can perform.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitzero"`
	Tags        []string `json:"tags,omitzero"`
	Examples    []string `json:"examples,omitzero"`
}
