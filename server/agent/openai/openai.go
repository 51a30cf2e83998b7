// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package openai provides a Generator backed by an OpenAI-compatible chat
// completion API.
package openai

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/a2a-go/a2a"
	"github.com/a2a-go/a2a/server/agent"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4oMini

// Generator produces agent replies by sending the task history to a chat
// completion endpoint. Text parts of the history are forwarded; file and
// data parts are skipped.
type Generator struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

var _ agent.Generator = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithSystemPrompt sets a system prompt prepended to every completion
// request.
func WithSystemPrompt(prompt string) Option {
	return func(g *Generator) {
		g.systemPrompt = prompt
	}
}

// NewGenerator creates a Generator talking to the official OpenAI endpoint.
func NewGenerator(apiKey string, opts ...Option) (*Generator, error) {
	return NewGeneratorWithConfig(openai.DefaultConfig(apiKey), opts...)
}

// NewGeneratorWithConfig creates a Generator from a full client config,
// which allows pointing at self-hosted OpenAI-compatible endpoints.
func NewGeneratorWithConfig(config openai.ClientConfig, opts ...Option) (*Generator, error) {
	g := &Generator{
		client: openai.NewClientWithConfig(config),
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	return g, nil
}

// Generate implements [agent.Generator].
func (g *Generator) Generate(ctx context.Context, history []*a2a.Message) (*agent.GenerateResult, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("history cannot be empty")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if g.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: g.systemPrompt,
		})
	}
	for _, msg := range history {
		text := a2a.GetMessageText(msg, "\n")
		if text == "" {
			continue
		}
		role := openai.ChatMessageRoleUser
		if msg.Role == a2a.RoleAgent {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: text,
		})
	}
	if len(messages) == 0 {
		reply, err := a2a.NewAgentTextMessage("please send a text message")
		if err != nil {
			return nil, err
		}
		return &agent.GenerateResult{Reply: reply, NeedsInput: true}, nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, fmt.Errorf("chat completion returned empty content")
	}
	reply, err := a2a.NewAgentTextMessage(content)
	if err != nil {
		return nil, err
	}
	artifact, err := a2a.NewTextArtifact("completion", content, "model reply")
	if err != nil {
		return nil, err
	}
	return &agent.GenerateResult{
		Reply:     reply,
		Artifacts: []*a2a.Artifact{artifact},
	}, nil
}
