package live

import (
	"errors"
	"fmt"
)

// ErrSessionActive is returned when Start is called on a session that has
// already left the Disconnected state.
var ErrSessionActive = errors.New("session already started")

// ErrorCode categorizes fatal session errors for the rendering surface.
type ErrorCode string

const (
	// CodeMicDenied means the capture device could not be opened.
	CodeMicDenied ErrorCode = "mic_denied"
	// CodeConnectFailed means the upstream connection could not be
	// established.
	CodeConnectFailed ErrorCode = "connect_failed"
	// CodeConnectionLost means an established connection failed mid-session.
	CodeConnectionLost ErrorCode = "connection_lost"
)

// SessionError is a fatal session error carrying a user-facing code.
type SessionError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewMicDeniedError wraps a capture device failure.
func NewMicDeniedError(err error) *SessionError {
	return &SessionError{Code: CodeMicDenied, Message: "microphone unavailable", Err: err}
}

// NewConnectFailedError wraps an upstream connect failure.
func NewConnectFailedError(err error) *SessionError {
	return &SessionError{Code: CodeConnectFailed, Message: "could not reach the tutor service", Err: err}
}
