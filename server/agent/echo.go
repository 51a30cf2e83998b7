// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"

	"github.com/a2a-go/a2a"
)

// EchoGenerator is a trivial Generator that echoes back the text of the
// latest user message. Useful for wiring tests and as a starting point for
// custom agents.
type EchoGenerator struct{}

var _ Generator = (*EchoGenerator)(nil)

// NewEchoGenerator creates a new EchoGenerator.
func NewEchoGenerator() *EchoGenerator {
	return &EchoGenerator{}
}

// Generate implements [Generator]. An empty or non-text latest message asks
// the caller for more input; anything else completes with an echo reply and
// a matching text artifact.
func (g *EchoGenerator) Generate(ctx context.Context, history []*a2a.Message) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("history cannot be empty")
	}

	text := a2a.GetMessageText(history[len(history)-1], "\n")
	if text == "" {
		reply, err := a2a.NewAgentTextMessage("please send a text message to echo")
		if err != nil {
			return nil, err
		}
		return &GenerateResult{Reply: reply, NeedsInput: true}, nil
	}

	echoed := fmt.Sprintf("received: %s", text)
	reply, err := a2a.NewAgentTextMessage(echoed)
	if err != nil {
		return nil, err
	}
	artifact, err := a2a.NewTextArtifact("result", echoed, "echoed input")
	if err != nil {
		return nil, err
	}
	return &GenerateResult{
		Reply:     reply,
		Artifacts: []*a2a.Artifact{artifact},
	}, nil
}
