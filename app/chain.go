package app

import (
	"reflect"

	"github.com/iov-one/curio"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []curio.Decorator
}

// ChainDecorators collects the decorators that should run around every
// transaction, top of the chain first. The stack stays open until
// WithHandler closes it with the dispatching handler:
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     utils.NewSavepoint().OnDeliver(),
//   ).WithHandler(router)
func ChainDecorators(chain ...curio.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain appends more decorators to the stack
func (d Decorators) Chain(chain ...curio.Decorator) Decorators {
	return Decorators{chain: append(d.chain, withoutNil(chain)...)}
}

// withoutNil filters out nil decorators, including typed nil pointers,
// so optional decorators can be passed in unconditionally.
func withoutNil(ds []curio.Decorator) []curio.Decorator {
	out := make([]curio.Decorator, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		out = append(out, d)
	}
	return out
}

// WithHandler closes the stack around the given handler and returns a
// Handler executing the whole chain. Wrapping starts at the innermost
// decorator so the first one in the chain runs first.
func (d Decorators) WithHandler(h curio.Handler) curio.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = layer{d: d.chain[i], next: h}
	}
	return h
}

// layer binds one decorator to the rest of the resolved stack below it
type layer struct {
	d    curio.Decorator
	next curio.Handler
}

var _ curio.Handler = layer{}

func (l layer) Check(ctx curio.Context, store curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	return l.d.Check(ctx, store, tx, l.next)
}

func (l layer) Deliver(ctx curio.Context, store curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	return l.d.Deliver(ctx, store, tx, l.next)
}
