// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/a2a-go/a2a"
)

// CardResolver fetches an agent's card from its well-known location.
type CardResolver struct {
	baseURL    string
	httpClient *http.Client
}

// NewCardResolver creates a CardResolver for the agent at baseURL.
func NewCardResolver(baseURL string, httpClient *http.Client) (*CardResolver, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &CardResolver{baseURL: baseURL, httpClient: httpClient}, nil
}

// Resolve fetches and validates the agent card.
func (r *CardResolver) Resolve(ctx context.Context) (*a2a.AgentCard, error) {
	cardURL, err := url.JoinPath(r.baseURL, a2a.AgentCardWellKnownPath)
	if err != nil {
		return nil, fmt.Errorf("build card URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d fetching agent card", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read agent card: %w", err)
	}

	var card a2a.AgentCard
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("unmarshal agent card: %w", err)
	}
	if err := card.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent card: %w", err)
	}
	return &card, nil
}
