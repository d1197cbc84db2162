package server

import (
	"context"

	"github.com/vango-dev/domsync/pkg/vdom"
)

// Command is one client round trip: the command an element event named,
// the element that raised it and the form values the client reported.
type Command struct {
	Name   string
	Target string
	Values map[string]string
}

// App supplies the tree each session shows and reacts to its commands.
//
// Handle and View are never called concurrently for the same session.
// Handle returns ErrUnknownCommand for commands it does not know.
type App interface {
	View(s *Session) *vdom.VNode
	Handle(ctx context.Context, s *Session, cmd Command) error
}

// AppFuncs adapts a pair of functions to App. A nil HandleFunc rejects
// every command.
type AppFuncs struct {
	ViewFunc   func(s *Session) *vdom.VNode
	HandleFunc func(ctx context.Context, s *Session, cmd Command) error
}

// View implements App.
func (a AppFuncs) View(s *Session) *vdom.VNode {
	return a.ViewFunc(s)
}

// Handle implements App.
func (a AppFuncs) Handle(ctx context.Context, s *Session, cmd Command) error {
	if a.HandleFunc == nil {
		return ErrUnknownCommand
	}
	return a.HandleFunc(ctx, s, cmd)
}
