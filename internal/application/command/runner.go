package command

import (
	"context"
	"fmt"
	"reflect"
)

// Runner dispatches commands to their registered handlers. It is the
// CommandRunner named by the scheduler: drained once per tick, ahead of
// state dispatch.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	Register(cmdType reflect.Type, handler Handler) error
	RegisterMiddleware(middleware Middleware)
}

type runner struct {
	handlers    map[reflect.Type]Handler
	middlewares []Middleware
}

// NewRunner creates an empty CommandRunner.
func NewRunner() Runner {
	return &runner{
		handlers:    make(map[reflect.Type]Handler),
		middlewares: make([]Middleware, 0),
	}
}

// Register registers a handler for a concrete command type.
func (r *runner) Register(cmdType reflect.Type, handler Handler) error {
	if cmdType == nil {
		return fmt.Errorf("command type cannot be nil")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	if _, exists := r.handlers[cmdType]; exists {
		return fmt.Errorf("handler already registered for type %s", cmdType)
	}
	r.handlers[cmdType] = handler
	return nil
}

// RegisterMiddleware appends middleware executed, in registration order, for
// every command before its handler runs.
func (r *runner) RegisterMiddleware(middleware Middleware) {
	r.middlewares = append(r.middlewares, middleware)
}

// Run dispatches cmd through the middleware chain to its registered handler.
func (r *runner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd == nil {
		return nil, fmt.Errorf("command cannot be nil")
	}

	cmdType := reflect.TypeOf(cmd)
	handler, ok := r.handlers[cmdType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for command type %s", cmdType)
	}

	next := handler.Handle
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		middleware := r.middlewares[i]
		currentNext := next
		next = func(ctx context.Context, c Command) (Result, error) {
			return middleware(ctx, c, currentNext)
		}
	}

	return next(ctx, cmd)
}

// RegisterHandlerFor registers handler for the zero value's runtime type T.
func RegisterHandlerFor[T Command](r Runner, handler Handler) error {
	var zero T
	return r.Register(reflect.TypeOf(zero), handler)
}
