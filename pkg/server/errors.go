package server

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed      = errors.New("server: session closed")
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrNoConnection means the session has no sync socket attached yet.
	ErrNoConnection = errors.New("server: no connection")

	// ErrUnknownCommand is what an App returns for a command name it
	// does not recognize. Clients receive it as D041.
	ErrUnknownCommand = errors.New("server: unknown command")
)

// SessionError ties a failed operation to the session it ran in.
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return "server: " + e.Op + ": " + e.Err.Error()
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// HandlerError records a panic raised by App.Handle. Stack is captured at
// the point of recovery.
type HandlerError struct {
	SessionID string
	Command   string
	Panic     any
	Stack     []byte
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("server: command %q panicked in session %s: %v", e.Command, e.SessionID, e.Panic)
}
