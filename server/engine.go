// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the A2A server side: the task lifecycle engine,
// the JSON-RPC dispatcher, and the HTTP server hosting them.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/a2a-go/a2a"
	"github.com/a2a-go/a2a/server/agent"
	"github.com/a2a-go/a2a/server/task"
)

// Engine drives tasks through their lifecycle. Every state transition runs
// inside a store Upsert, so the read-decide-write sequence for a task is
// atomic with respect to concurrent requests for the same task ID.
//
// State machine:
//
//	(absent)        --send-->   submitted -> working -> completed|input-required|failed
//	input-required  --send-->   working -> completed|input-required|failed
//	submitted       --cancel->  canceled
//	working         --cancel->  canceled
//	input-required  --cancel->  canceled
//	terminal        --send/cancel-> TaskNotModifiableError
type Engine struct {
	store     task.TaskStore
	generator agent.Generator
	logger    *slog.Logger
	tracer    trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger used by the engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEngineTracer sets the tracer used by the engine.
func WithEngineTracer(tracer trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// NewEngine creates an Engine on top of a task store and a content
// generation capability.
func NewEngine(store task.TaskStore, generator agent.Generator, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	e := &Engine{
		store:     store,
		generator: generator,
		logger:    slog.Default(),
		tracer:    otel.Tracer("a2a.server.engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SendMessage handles tasks/send. It creates the task if it does not exist,
// appends the caller's message to the history, and runs one generation
// round. The outcome is completed, input-required, or failed; a capability
// failure is recorded on the task rather than returned as an RPC error.
func (e *Engine) SendMessage(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	ctx, span := e.tracer.Start(ctx, "a2a.engine.SendMessage",
		trace.WithAttributes(attribute.String("a2a.task.id", params.TaskID)))
	defer span.End()

	result, err := e.store.Upsert(ctx, params.TaskID, func(current *a2a.Task) (*a2a.Task, error) {
		t, err := e.acceptMessage(current, params)
		if err != nil {
			return nil, err
		}

		// Cancellation is only observed between transitions; a generation
		// already in flight runs to completion.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t.Status = a2a.NewTaskStatus(a2a.TaskStateWorking, nil)

		genResult, genErr := e.generator.Generate(ctx, t.History)
		if genErr != nil {
			capErr := a2a.CapabilityError{Err: genErr}
			e.logger.Warn("capability failed, marking task failed",
				slog.String("task_id", t.ID), slog.Any("error", capErr))
			if t.Metadata == nil {
				t.Metadata = make(map[string]any)
			}
			t.Metadata["error"] = genErr.Error()
			t.Status = a2a.NewTaskStatus(a2a.TaskStateFailed, nil)
			return t, nil
		}

		if genResult.Reply != nil {
			t.History = append(t.History, genResult.Reply)
		}
		base := len(t.Artifacts)
		for i, artifact := range genResult.Artifacts {
			artifact.Index = base + i
			t.Artifacts = append(t.Artifacts, artifact)
		}

		finalState := a2a.TaskStateCompleted
		if genResult.NeedsInput {
			finalState = a2a.TaskStateInputRequired
		}
		t.Status = a2a.NewTaskStatus(finalState, genResult.Reply)
		return t, nil
	})
	if err != nil {
		span.SetAttributes(attribute.String("a2a.error", err.Error()))
		return nil, err
	}

	e.logger.Info("task message processed",
		slog.String("task_id", result.ID),
		slog.String("state", string(result.Status.State)))
	span.SetAttributes(attribute.String("a2a.task.state", string(result.Status.State)))
	return result, nil
}

// acceptMessage applies the incoming message to the stored task, creating
// the task when absent and rejecting terminal tasks.
func (e *Engine) acceptMessage(current *a2a.Task, params a2a.TaskSendParams) (*a2a.Task, error) {
	if current == nil {
		t, err := a2a.NewTask(params.TaskID, params.SessionID, params.Message)
		if err != nil {
			return nil, a2a.InvalidParamsError{Msg: err.Error()}
		}
		if len(params.Metadata) > 0 {
			t.Metadata = params.Metadata
		}
		return t, nil
	}
	if current.Status.State.Terminal() {
		return nil, a2a.TaskNotModifiableError{TaskID: current.ID, State: current.Status.State}
	}
	current.History = append(current.History, params.Message)
	return current, nil
}

// GetTask handles tasks/get. A positive historyLength trims the returned
// history to the most recent entries; zero returns the full history.
func (e *Engine) GetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error) {
	ctx, span := e.tracer.Start(ctx, "a2a.engine.GetTask",
		trace.WithAttributes(attribute.String("a2a.task.id", params.TaskID)))
	defer span.End()

	t, err := e.store.Get(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}
	if params.HistoryLength > 0 && len(t.History) > params.HistoryLength {
		t.History = t.History[len(t.History)-params.HistoryLength:]
	}
	return t, nil
}

// CancelTask handles tasks/cancel. Canceling an unknown task is
// TaskNotFoundError; canceling a terminal task is TaskNotModifiableError.
func (e *Engine) CancelTask(ctx context.Context, params a2a.TaskIDParams) (*a2a.Task, error) {
	ctx, span := e.tracer.Start(ctx, "a2a.engine.CancelTask",
		trace.WithAttributes(attribute.String("a2a.task.id", params.TaskID)))
	defer span.End()

	result, err := e.store.Upsert(ctx, params.TaskID, func(current *a2a.Task) (*a2a.Task, error) {
		if current == nil {
			return nil, a2a.TaskNotFoundError{TaskID: params.TaskID}
		}
		if current.Status.State.Terminal() {
			return nil, a2a.TaskNotModifiableError{TaskID: current.ID, State: current.Status.State}
		}
		current.Status = a2a.NewTaskStatus(a2a.TaskStateCanceled, nil)
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("task canceled", slog.String("task_id", result.ID))
	return result, nil
}
