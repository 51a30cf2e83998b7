// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"fmt"
)

// Error codes for the A2A protocol. The -32xxx range below -32000 follows
// JSON-RPC 2.0; the -3200x codes are A2A specific.
const (
	ErrorCodeTaskNotFound      = -32001
	ErrorCodeTaskNotModifiable = -32002
	ErrorCodeJSONParse         = -32700
	ErrorCodeInvalidRequest    = -32600
	ErrorCodeMethodNotFound    = -32601
	ErrorCodeInvalidParams     = -32602
	ErrorCodeInternalError     = -32603
)

// A2AError represents a protocol error carrying a JSON-RPC error code.
type A2AError interface {
	error
	Code() int
}

// TaskNotFoundError represents an error when a task is not found.
type TaskNotFoundError struct {
	TaskID string
}

// Error returns the error message.
func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// Code returns the error code.
func (e TaskNotFoundError) Code() int {
	return ErrorCodeTaskNotFound
}

// TaskNotModifiableError represents an error when a mutation is attempted
// on a task in a terminal state. Terminal tasks are frozen, not reusable.
type TaskNotModifiableError struct {
	TaskID string
	State  TaskState
}

// Error returns the error message.
func (e TaskNotModifiableError) Error() string {
	return fmt.Sprintf("task %s in terminal state %s cannot be modified", e.TaskID, e.State)
}

// Code returns the error code.
func (e TaskNotModifiableError) Code() int {
	return ErrorCodeTaskNotModifiable
}

// JSONParseError represents a JSON parsing error.
type JSONParseError struct {
	Msg string
}

// Error returns the error message.
func (e JSONParseError) Error() string {
	return fmt.Sprintf("JSON parse error: %s", e.Msg)
}

// Code returns the error code.
func (e JSONParseError) Code() int {
	return ErrorCodeJSONParse
}

// InvalidRequestError represents an invalid request error.
type InvalidRequestError struct {
	Msg string
}

// Error returns the error message.
func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Msg)
}

// Code returns the error code.
func (e InvalidRequestError) Code() int {
	return ErrorCodeInvalidRequest
}

// MethodNotFoundError represents a method not found error.
type MethodNotFoundError struct {
	Method string
}

// Error returns the error message.
func (e MethodNotFoundError) Error() string {
	return fmt.Sprintf("method not found: %s", e.Method)
}

// Code returns the error code.
func (e MethodNotFoundError) Code() int {
	return ErrorCodeMethodNotFound
}

// InvalidParamsError represents an invalid parameters error.
type InvalidParamsError struct {
	Msg string
}

// Error returns the error message.
func (e InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid params: %s", e.Msg)
}

// Code returns the error code.
func (e InvalidParamsError) Code() int {
	return ErrorCodeInvalidParams
}

// InternalError represents an unexpected internal fault.
type InternalError struct {
	Msg string
}

// Error returns the error message.
func (e InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Msg)
}

// Code returns the error code.
func (e InternalError) Code() int {
	return ErrorCodeInternalError
}

// CapabilityError represents a failure raised by the delegated content
// generation capability. It carries no JSON-RPC code of its own: the
// lifecycle engine converts it into a Failed terminal state with the cause
// recorded in the task metadata.
type CapabilityError struct {
	Err error
}

// Error returns the error message.
func (e CapabilityError) Error() string {
	return fmt.Sprintf("capability failure: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e CapabilityError) Unwrap() error {
	return e.Err
}

// NewJSONRPCError converts an error into its wire representation. Typed
// protocol errors keep their code; anything else maps to an internal error.
func NewJSONRPCError(err error) *JSONRPCError {
	var a2aErr A2AError
	if errors.As(err, &a2aErr) {
		return &JSONRPCError{
			Code:    a2aErr.Code(),
			Message: a2aErr.Error(),
		}
	}
	return &JSONRPCError{
		Code:    ErrorCodeInternalError,
		Message: fmt.Sprintf("internal error: %v", err),
	}
}
