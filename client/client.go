// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package client provides an HTTP client for A2A servers.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/a2a-go/a2a"
)

var sonicAPI = sonic.ConfigFastest

// A2AClient talks JSON-RPC to one A2A server. Request ids are generated
// per call and verified against the response.
type A2AClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// ClientOption configures an A2AClient.
type ClientOption func(*A2AClient)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *A2AClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *A2AClient) {
		c.logger = logger
	}
}

// WithTracer sets the client tracer.
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *A2AClient) {
		c.tracer = tracer
	}
}

// NewA2AClient creates a client for the A2A server at baseURL.
func NewA2AClient(baseURL string, opts ...ClientOption) (*A2AClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	c := &A2AClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
		tracer:     otel.Tracer("a2a.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendTask sends a message to a task via tasks/send, creating the task when
// it does not exist yet.
func (c *A2AClient) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, a2a.InvalidParamsError{Msg: err.Error()}
	}
	req := a2a.NewSendTaskRequest(a2a.NewID(uuid.NewString()), params)
	return c.call(ctx, a2a.MethodTasksSend, req.ID, req)
}

// GetTask retrieves the current state of a task via tasks/get.
func (c *A2AClient) GetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, a2a.InvalidParamsError{Msg: err.Error()}
	}
	req := a2a.NewGetTaskRequest(a2a.NewID(uuid.NewString()), params)
	return c.call(ctx, a2a.MethodTasksGet, req.ID, req)
}

// CancelTask cancels a task via tasks/cancel.
func (c *A2AClient) CancelTask(ctx context.Context, params a2a.TaskIDParams) (*a2a.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, a2a.InvalidParamsError{Msg: err.Error()}
	}
	req := a2a.NewCancelTaskRequest(a2a.NewID(uuid.NewString()), params)
	return c.call(ctx, a2a.MethodTasksCancel, req.ID, req)
}

// call performs one JSON-RPC round trip and decodes the task result.
func (c *A2AClient) call(ctx context.Context, method string, id a2a.ID, request any) (*a2a.Task, error) {
	ctx, span := c.tracer.Start(ctx, "a2a.client.call",
		trace.WithAttributes(attribute.String("a2a.rpc.method", method)))
	defer span.End()

	payload, err := sonicAPI.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d: %s", httpResp.StatusCode, body)
	}

	var resp a2a.TaskResponse
	if err := sonicAPI.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != nil {
		c.logger.Debug("rpc error response",
			slog.String("method", method), slog.Int("code", resp.Error.Code))
		return nil, FromJSONRPCError(resp.Error)
	}
	if !resp.ID.IsZero() && resp.ID.String() != id.String() {
		return nil, fmt.Errorf("response id %q does not match request id %q", resp.ID, id)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("response contains neither result nor error")
	}
	return resp.Result, nil
}
