package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
)

// isPath constrains message paths to the "extension/action" shape
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router maps message paths to their handlers and itself implements
// the Handler interface, dispatching on the message carried by the
// transaction.
type Router struct {
	handlers map[string]curio.Handler
}

var _ curio.Registry = (*Router)(nil)
var _ curio.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]curio.Handler),
	}
}

// Handle implements Registry interface. Registering a message type
// twice panics, as does a malformed path.
func (r *Router) Handle(m curio.Msg, h curio.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.handlers[path] = h
}

// handler returns the registered Handler for this message path.
// A nil is never returned, a not-found handler is used instead.
func (r *Router) handler(path string) curio.Handler {
	if h, ok := r.handlers[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on the message path
func (r *Router) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	return r.handler(curio.GetPath(tx)).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path
func (r *Router) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	return r.handler(curio.GetPath(tx)).Deliver(ctx, db, tx)
}

// notFoundHandler always returns an error, naming the missing route
type notFoundHandler string

var _ curio.Handler = notFoundHandler("")

func (path notFoundHandler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
