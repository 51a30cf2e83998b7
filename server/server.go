// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/a2a-go/a2a"
)

const defaultMaxBodyBytes = 4 << 20 // 4 MiB

// A2AServer hosts the JSON-RPC endpoint and the agent card over HTTP.
type A2AServer struct {
	host         string
	port         int
	rpcPath      string
	agentCard    a2a.AgentCard
	dispatcher   *Dispatcher
	logger       *slog.Logger
	tracer       trace.Tracer
	maxBodyBytes int64

	httpServer *http.Server
}

// ServerOption configures an A2AServer.
type ServerOption func(*A2AServer)

// WithHost sets the listen host. Defaults to "localhost".
func WithHost(host string) ServerOption {
	return func(s *A2AServer) {
		s.host = host
	}
}

// WithPort sets the listen port. Defaults to 8080.
func WithPort(port int) ServerOption {
	return func(s *A2AServer) {
		s.port = port
	}
}

// WithRPCPath sets the path serving JSON-RPC requests. Defaults to
// [a2a.DefaultRPCPath].
func WithRPCPath(path string) ServerOption {
	return func(s *A2AServer) {
		s.rpcPath = path
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *A2AServer) {
		s.logger = logger
	}
}

// WithTracer sets the server tracer.
func WithTracer(tracer trace.Tracer) ServerOption {
	return func(s *A2AServer) {
		s.tracer = tracer
	}
}

// WithMaxBodyBytes caps the accepted request body size.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *A2AServer) {
		s.maxBodyBytes = n
	}
}

// NewA2AServer creates an A2AServer serving the given agent card and
// dispatching requests to the given engine.
func NewA2AServer(agentCard a2a.AgentCard, engine *Engine, opts ...ServerOption) (*A2AServer, error) {
	if err := agentCard.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent card: %w", err)
	}

	s := &A2AServer{
		host:         "localhost",
		port:         8080,
		rpcPath:      a2a.DefaultRPCPath,
		agentCard:    agentCard,
		logger:       slog.Default(),
		tracer:       otel.Tracer("a2a.server"),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	dispatcher, err := NewDispatcher(engine, s.logger)
	if err != nil {
		return nil, err
	}
	s.dispatcher = dispatcher
	return s, nil
}

// Handler returns the HTTP handler serving the RPC endpoint and the agent
// card. Useful for embedding the server in an existing mux or test server.
func (s *A2AServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(a2a.AgentCardWellKnownPath, s.handleAgentCard)
	mux.HandleFunc(s.rpcPath, s.handleRPC)
	return mux
}

// Start begins listening and serving requests. It blocks until the server
// stops; a closed-server shutdown is reported as nil.
func (s *A2AServer) Start() error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting A2A server",
		slog.String("addr", addr), slog.String("rpc_path", s.rpcPath))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
func (s *A2AServer) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("stopping A2A server")
	return s.httpServer.Shutdown(ctx)
}

func (s *A2AServer) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := sonicAPI.Marshal(s.agentCard)
	if err != nil {
		s.logger.Error("failed to marshal agent card", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write agent card", slog.Any("error", err))
	}
}

// handleRPC serves the JSON-RPC endpoint. Protocol failures are JSON-RPC
// error responses with HTTP 200; only transport-level problems surface as
// non-200 statuses.
func (s *A2AServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "a2a.server.handleRPC")
	defer span.End()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodyBytes+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if int64(len(body)) > s.maxBodyBytes {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	resp := s.dispatcher.Dispatch(ctx, body)
	if resp.Error != nil {
		span.SetAttributes(attribute.Int("a2a.rpc.error_code", resp.Error.Code))
	}

	data, err := sonicAPI.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write response", slog.Any("error", err))
	}
}
