// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"

	"github.com/a2a-go/a2a"
)

var sonicAPI = sonic.ConfigFastest

// Dispatcher decodes JSON-RPC request bodies and routes them to the
// lifecycle engine. Protocol errors never escape as Go errors: every
// outcome is a JSON-RPC response, with the request id echoed when one could
// be parsed.
type Dispatcher struct {
	engine *Engine
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher for the given engine.
func NewDispatcher(engine *Engine, logger *slog.Logger) (*Dispatcher, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{engine: engine, logger: logger}, nil
}

// Dispatch processes one JSON-RPC request body and returns the response to
// send back.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) *a2a.JSONRPCResponse {
	var req a2a.JSONRPCRequest
	if err := sonicAPI.Unmarshal(body, &req); err != nil {
		return a2a.NewJSONRPCErrorResponse(a2a.ID{},
			a2a.NewJSONRPCError(a2a.JSONParseError{Msg: err.Error()}))
	}
	if req.JSONRPC != "2.0" {
		return a2a.NewJSONRPCErrorResponse(req.ID,
			a2a.NewJSONRPCError(a2a.InvalidRequestError{Msg: fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC)}))
	}

	d.logger.Debug("dispatching request",
		slog.String("method", req.Method), slog.String("id", req.ID.String()))

	result, err := d.dispatch(ctx, &req)
	if err != nil {
		d.logger.Debug("request failed",
			slog.String("method", req.Method), slog.Any("error", err))
		return a2a.NewJSONRPCErrorResponse(req.ID, a2a.NewJSONRPCError(err))
	}
	return a2a.NewJSONRPCResponse(req.ID, result)
}

func (d *Dispatcher) dispatch(ctx context.Context, req *a2a.JSONRPCRequest) (*a2a.Task, error) {
	switch req.Method {
	case a2a.MethodTasksSend:
		var params a2a.TaskSendParams
		if err := decodeParams(req.Params, &params); err != nil {
			return nil, err
		}
		return d.engine.SendMessage(ctx, params)

	case a2a.MethodTasksGet:
		var params a2a.TaskQueryParams
		if err := decodeParams(req.Params, &params); err != nil {
			return nil, err
		}
		return d.engine.GetTask(ctx, params)

	case a2a.MethodTasksCancel:
		var params a2a.TaskIDParams
		if err := decodeParams(req.Params, &params); err != nil {
			return nil, err
		}
		return d.engine.CancelTask(ctx, params)

	default:
		return nil, a2a.MethodNotFoundError{Method: req.Method}
	}
}

// decodeParams unmarshals and validates method params. Both decoding and
// validation failures map to the invalid-params error code, and both happen
// before any store access.
func decodeParams[T interface{ Validate() error }](raw []byte, out *T) error {
	if len(raw) == 0 {
		return a2a.InvalidParamsError{Msg: "params are required"}
	}
	if err := sonicAPI.Unmarshal(raw, out); err != nil {
		return a2a.InvalidParamsError{Msg: err.Error()}
	}
	if err := (*out).Validate(); err != nil {
		return a2a.InvalidParamsError{Msg: err.Error()}
	}
	return nil
}
