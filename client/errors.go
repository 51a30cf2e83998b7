// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"

	"github.com/a2a-go/a2a"
)

// RPCError is the client-side fallback for JSON-RPC error codes this
// package does not map to a typed error.
type RPCError struct {
	ErrCode int
	Message string
}

// Error returns the error message.
func (e RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.ErrCode, e.Message)
}

// Code returns the error code.
func (e RPCError) Code() int {
	return e.ErrCode
}

// FromJSONRPCError converts a wire error into the typed error matching its
// code, so callers can detect conditions like a missing task with
// [errors.As].
func FromJSONRPCError(rpcErr *a2a.JSONRPCError) error {
	if rpcErr == nil {
		return nil
	}
	switch rpcErr.Code {
	case a2a.ErrorCodeTaskNotFound:
		return a2a.TaskNotFoundError{TaskID: dataTaskID(rpcErr)}
	case a2a.ErrorCodeTaskNotModifiable:
		return a2a.TaskNotModifiableError{TaskID: dataTaskID(rpcErr)}
	case a2a.ErrorCodeJSONParse:
		return a2a.JSONParseError{Msg: rpcErr.Message}
	case a2a.ErrorCodeInvalidRequest:
		return a2a.InvalidRequestError{Msg: rpcErr.Message}
	case a2a.ErrorCodeMethodNotFound:
		return a2a.MethodNotFoundError{Method: rpcErr.Message}
	case a2a.ErrorCodeInvalidParams:
		return a2a.InvalidParamsError{Msg: rpcErr.Message}
	case a2a.ErrorCodeInternalError:
		return a2a.InternalError{Msg: rpcErr.Message}
	default:
		return RPCError{ErrCode: rpcErr.Code, Message: rpcErr.Message}
	}
}

func dataTaskID(rpcErr *a2a.JSONRPCError) string {
	data, ok := rpcErr.Data.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := data["taskId"].(string)
	return id
}
