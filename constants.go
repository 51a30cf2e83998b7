// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

// A2A protocol path constants.
const (
	// AgentCardWellKnownPath is the standard path for retrieving an agent's
	// public AgentCard, following the well-known URI pattern.
	//
	// Example usage: https://agent.example.com/.well-known/agent.json
	AgentCardWellKnownPath = "/.well-known/agent.json"

	// DefaultRPCPath is the default URL path for the A2A JSON-RPC endpoint.
	// It handles POST requests carrying JSON-RPC payloads.
	DefaultRPCPath = "/"
)
