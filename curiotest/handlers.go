package curiotest

import "github.com/iov-one/curio"

// Handler is a mock implementation of the curio.Handler interface.
//
// Each method call is counted.
type Handler struct {
	checkCall   int
	CheckResult curio.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult curio.DeliverResult
	DeliverErr    error
}

var _ curio.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
