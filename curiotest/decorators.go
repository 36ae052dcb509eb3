package curiotest

import "github.com/iov-one/curio"

// Decorator is a mock implementation of the curio.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ curio.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx, next curio.Checker) (*curio.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx, next curio.Deliverer) (*curio.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with a single decorator and returns
// them as a combined handler.
func Decorate(h curio.Handler, d curio.Decorator) curio.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn curio.Handler
	dc curio.Decorator
}

var _ curio.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
