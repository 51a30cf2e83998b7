// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// A2A RPC method names.
const (
	// MethodTasksSend is the method name for sending a message to a task.
	MethodTasksSend = "tasks/send"

	// MethodTasksGet is the method name for getting a task.
	MethodTasksGet = "tasks/get"

	// MethodTasksCancel is the method name for canceling a task.
	MethodTasksCancel = "tasks/cancel"
)

// ID represents the unique identifier for JSON-RPC messages. Per JSON-RPC
// 2.0 it may be a string or a number, and it is echoed verbatim on the
// response for request/response correlation.
type ID struct {
	value any
}

// NewID creates a new ID from a string or a number.
func NewID(value any) ID {
	return ID{value: value}
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id.value == nil
}

// String returns the string form of the ID.
func (id ID) String() string {
	switch v := id.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MarshalJSON implements [json.Marshaler].
func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (id *ID) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch value.(type) {
	case nil, string, float64:
		id.value = value
		return nil
	default:
		return fmt.Errorf("invalid JSON-RPC id type %T", value)
	}
}

// JSONRPCMessage is the base structure for all JSON-RPC 2.0 messages.
type JSONRPCMessage struct {
	// JSONRPC version, always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID is a unique identifier for request/response correlation.
	ID ID `json:"id,omitzero"`
}

// NewJSONRPCMessage creates a new [JSONRPCMessage] with the given id.
func NewJSONRPCMessage(id ID) JSONRPCMessage {
	return JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPCMessage

	// Method identifies the operation to perform.
	Method string `json:"method"`

	// Params contains parameters for the method.
	Params json.RawMessage `json:"params,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error.
type JSONRPCError struct {
	// Code is the error code.
	Code int `json:"code"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Data contains optional additional error details.
	Data any `json:"data,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response. Result and Error are
// mutually exclusive.
type JSONRPCResponse struct {
	JSONRPCMessage

	Result any           `json:"result,omitempty"`
	Error  *JSONRPCError `json:"error,omitempty"`
}

// NewJSONRPCResponse creates a successful response echoing the given id.
func NewJSONRPCResponse(id ID, result any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Result:         result,
	}
}

// NewJSONRPCErrorResponse creates an error response echoing the given id.
func NewJSONRPCErrorResponse(id ID, rpcErr *JSONRPCError) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Error:          rpcErr,
	}
}

// TaskSendParams represents parameters for the tasks/send method.
type TaskSendParams struct {
	TaskID    string         `json:"taskId"`
	SessionID string         `json:"sessionId,omitzero"`
	Message   *Message       `json:"message"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskSendParams are valid.
func (p TaskSendParams) Validate() error {
	if p.TaskID == "" {
		return fmt.Errorf("taskId cannot be empty")
	}
	if p.Message == nil {
		return fmt.Errorf("message cannot be nil")
	}
	if err := p.Message.Validate(); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}
	return nil
}

// TaskQueryParams represents parameters for the tasks/get method.
type TaskQueryParams struct {
	TaskID        string         `json:"taskId"`
	HistoryLength int            `json:"historyLength,omitzero"`
	Metadata      map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskQueryParams are valid.
func (p TaskQueryParams) Validate() error {
	if p.TaskID == "" {
		return fmt.Errorf("taskId cannot be empty")
	}
	if p.HistoryLength < 0 {
		return fmt.Errorf("historyLength cannot be negative")
	}
	return nil
}

// TaskIDParams represents parameters for methods that address a task by ID,
// such as tasks/cancel.
type TaskIDParams struct {
	TaskID   string         `json:"taskId"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskIDParams are valid.
func (p TaskIDParams) Validate() error {
	if p.TaskID == "" {
		return fmt.Errorf("taskId cannot be empty")
	}
	return nil
}

// A2ARequest represents the union of all supported A2A JSON-RPC requests.
type A2ARequest interface {
	MethodName() string
}

// SendTaskRequest represents a request to initiate or continue a task.
type SendTaskRequest struct {
	JSONRPCMessage

	// Method is always "tasks/send".
	Method string         `json:"method"`
	Params TaskSendParams `json:"params"`
}

var _ A2ARequest = (*SendTaskRequest)(nil)

// MethodName implements [A2ARequest].
func (*SendTaskRequest) MethodName() string {
	return MethodTasksSend
}

// NewSendTaskRequest creates a new [SendTaskRequest].
func NewSendTaskRequest(id ID, params TaskSendParams) *SendTaskRequest {
	return &SendTaskRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         MethodTasksSend,
		Params:         params,
	}
}

// GetTaskRequest represents a request to retrieve the current state of a task.
type GetTaskRequest struct {
	JSONRPCMessage

	// Method is always "tasks/get".
	Method string          `json:"method"`
	Params TaskQueryParams `json:"params"`
}

var _ A2ARequest = (*GetTaskRequest)(nil)

// MethodName implements [A2ARequest].
func (*GetTaskRequest) MethodName() string {
	return MethodTasksGet
}

// NewGetTaskRequest creates a new [GetTaskRequest].
func NewGetTaskRequest(id ID, params TaskQueryParams) *GetTaskRequest {
	return &GetTaskRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         MethodTasksGet,
		Params:         params,
	}
}

// CancelTaskRequest represents a request to cancel a running task.
type CancelTaskRequest struct {
	JSONRPCMessage

	// Method is always "tasks/cancel".
	Method string       `json:"method"`
	Params TaskIDParams `json:"params"`
}

var _ A2ARequest = (*CancelTaskRequest)(nil)

// MethodName implements [A2ARequest].
func (*CancelTaskRequest) MethodName() string {
	return MethodTasksCancel
}

// NewCancelTaskRequest creates a new [CancelTaskRequest].
func NewCancelTaskRequest(id ID, params TaskIDParams) *CancelTaskRequest {
	return &CancelTaskRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         MethodTasksCancel,
		Params:         params,
	}
}

// TaskResponse represents a response whose result is a Task, which is the
// shape of every response in this core.
type TaskResponse struct {
	JSONRPCMessage

	Result *Task         `json:"result,omitempty"`
	Error  *JSONRPCError `json:"error,omitempty"`
}
