// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  A2AError
		code int
	}{
		{err: TaskNotFoundError{TaskID: "t1"}, code: ErrorCodeTaskNotFound},
		{err: TaskNotModifiableError{TaskID: "t1", State: TaskStateCompleted}, code: ErrorCodeTaskNotModifiable},
		{err: JSONParseError{Msg: "bad"}, code: ErrorCodeJSONParse},
		{err: InvalidRequestError{Msg: "bad"}, code: ErrorCodeInvalidRequest},
		{err: MethodNotFoundError{Method: "tasks/stream"}, code: ErrorCodeMethodNotFound},
		{err: InvalidParamsError{Msg: "bad"}, code: ErrorCodeInvalidParams},
		{err: InternalError{Msg: "boom"}, code: ErrorCodeInternalError},
	}

	for _, tt := range tests {
		if got := tt.err.Code(); got != tt.code {
			t.Errorf("%T Code() = %d, want %d", tt.err, got, tt.code)
		}
		if tt.err.Error() == "" {
			t.Errorf("%T Error() is empty", tt.err)
		}
	}
}

func TestNewJSONRPCError(t *testing.T) {
	rpcErr := NewJSONRPCError(TaskNotFoundError{TaskID: "t1"})
	if rpcErr.Code != ErrorCodeTaskNotFound {
		t.Errorf("Code = %d, want %d", rpcErr.Code, ErrorCodeTaskNotFound)
	}

	wrapped := fmt.Errorf("handling request: %w", TaskNotModifiableError{TaskID: "t1", State: TaskStateFailed})
	rpcErr = NewJSONRPCError(wrapped)
	if rpcErr.Code != ErrorCodeTaskNotModifiable {
		t.Errorf("Code for wrapped error = %d, want %d", rpcErr.Code, ErrorCodeTaskNotModifiable)
	}

	rpcErr = NewJSONRPCError(errors.New("disk on fire"))
	if rpcErr.Code != ErrorCodeInternalError {
		t.Errorf("Code for plain error = %d, want %d", rpcErr.Code, ErrorCodeInternalError)
	}
}

func TestCapabilityErrorUnwrap(t *testing.T) {
	cause := errors.New("model unavailable")
	err := CapabilityError{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() failed to match wrapped cause")
	}
}
