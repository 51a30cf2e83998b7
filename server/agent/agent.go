// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent defines the content generation capability that the
// lifecycle engine delegates to while a task is in the working state.
package agent

import (
	"context"

	"github.com/a2a-go/a2a"
)

// GenerateResult is what a Generator produces for one processing round.
type GenerateResult struct {
	// Reply is the agent message to append to the task history. May be nil
	// when the generator has nothing to say for this round.
	Reply *a2a.Message

	// Artifacts are outputs produced in this round, in production order.
	// Artifact indices are assigned by the lifecycle engine on append.
	Artifacts []*a2a.Artifact

	// NeedsInput indicates the generator cannot proceed without another
	// message from the caller. The task lands in the input-required state
	// instead of completed.
	NeedsInput bool
}

// Generator produces agent content from a task's message history. It is
// invoked by the lifecycle engine inside the store's per-task critical
// section, so a single task never runs two generations concurrently.
//
// Returning an error marks the task failed with the error recorded in the
// task metadata; it does not fail the RPC that triggered the generation.
type Generator interface {
	Generate(ctx context.Context, history []*a2a.Message) (*GenerateResult, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, history []*a2a.Message) (*GenerateResult, error)

// Generate implements [Generator].
func (f GeneratorFunc) Generate(ctx context.Context, history []*a2a.Message) (*GenerateResult, error) {
	return f(ctx, history)
}
