// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a2a-go/a2a"
	"github.com/a2a-go/a2a/client"
	"github.com/a2a-go/a2a/server/agent"
	"github.com/a2a-go/a2a/server/task"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := task.NewInMemoryTaskStore()
	t.Cleanup(func() { store.Close() })

	engine, err := NewEngine(store, agent.NewEchoGenerator())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	card := a2a.AgentCard{
		Name:    "Echo Agent",
		URL:     "http://example.com/",
		Version: a2a.Version,
	}
	srv, err := NewA2AServer(card, engine)
	if err != nil {
		t.Fatalf("NewA2AServer() error = %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServerEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	c, err := client.NewA2AClient(ts.URL + "/")
	if err != nil {
		t.Fatalf("NewA2AClient() error = %v", err)
	}

	message, err := a2a.NewUserTextMessage("round trip")
	if err != nil {
		t.Fatalf("NewUserTextMessage() error = %v", err)
	}

	sent, err := c.SendTask(ctx, a2a.TaskSendParams{TaskID: "task-1", Message: message})
	if err != nil {
		t.Fatalf("SendTask() error = %v", err)
	}
	if sent.Status.State != a2a.TaskStateCompleted {
		t.Errorf("State = %q, want %q", sent.Status.State, a2a.TaskStateCompleted)
	}
	if want := "received: round trip"; a2a.GetMessageText(sent.History[len(sent.History)-1], "\n") != want {
		t.Errorf("reply = %q, want %q", a2a.GetMessageText(sent.History[len(sent.History)-1], "\n"), want)
	}

	got, err := c.GetTask(ctx, a2a.TaskQueryParams{TaskID: "task-1"})
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if len(got.History) != 2 {
		t.Errorf("History length = %d, want 2", len(got.History))
	}
	if len(got.Artifacts) != 1 {
		t.Errorf("Artifacts length = %d, want 1", len(got.Artifacts))
	}

	// The completed task rejects further mutation through the full stack.
	_, err = c.CancelTask(ctx, a2a.TaskIDParams{TaskID: "task-1"})
	var notModifiable a2a.TaskNotModifiableError
	if !errors.As(err, &notModifiable) {
		t.Fatalf("CancelTask() error = %v, want TaskNotModifiableError", err)
	}
}

func TestServerTaskNotFoundOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	c, err := client.NewA2AClient(ts.URL + "/")
	if err != nil {
		t.Fatalf("NewA2AClient() error = %v", err)
	}

	_, err = c.GetTask(context.Background(), a2a.TaskQueryParams{TaskID: "missing"})
	var notFound a2a.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetTask() error = %v, want TaskNotFoundError", err)
	}
}

func TestServerAgentCard(t *testing.T) {
	ts := newTestServer(t)

	resolver, err := client.NewCardResolver(ts.URL, ts.Client())
	if err != nil {
		t.Fatalf("NewCardResolver() error = %v", err)
	}
	card, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if card.Name != "Echo Agent" {
		t.Errorf("Name = %q, want %q", card.Name, "Echo Agent")
	}
	if card.Version != a2a.Version {
		t.Errorf("Version = %q, want %q", card.Version, a2a.Version)
	}
}

func TestServerRejectsNonPost(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestServerParseErrorOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d (errors ride the JSON-RPC envelope)", resp.StatusCode, http.StatusOK)
	}

	var rpcResp a2a.TaskResponse
	if err := sonicAPI.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if rpcResp.Error == nil || rpcResp.Error.Code != a2a.ErrorCodeJSONParse {
		t.Fatalf("error = %+v, want JSON parse error", rpcResp.Error)
	}
}
