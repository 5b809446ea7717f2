package handler

import (
	"time"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format except /metrics, /status and /greet.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest = domain.UserFields

// UpdateUserRequest is the request body for PUT /users/{index}.
type UpdateUserRequest = domain.UserPatch

// CreateUserResponse is the response body for POST /users.
type CreateUserResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse is the response body for POST /login.
type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is the response body for GET /session.
type SessionResponse struct {
	Identity  string    `json:"identity"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	// IdentitySessions counts every session minted for Identity.
	IdentitySessions int `json:"identity_sessions"`
}

// HelloResponse is the response body for GET /.
type HelloResponse struct {
	Message string `json:"message"`
}
