package token

import (
	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/x"
)

const sendTxCost int64 = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r curio.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/accounts"
func RegisterQuery(qr curio.QueryRouter) {
	NewBucket().Register("accounts", qr)
}

// SendHandler will handle wallet to wallet transfers
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ curio.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx curio.Context, store curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	if _, err := h.validate(ctx, store, tx); err != nil {
		return nil, err
	}
	res := curio.CheckResult{
		GasAllocated: sendTxCost,
	}
	return &res, nil
}

// Deliver moves the funds from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx curio.Context, store curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	msg, err := h.validate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	acct, err := h.control.Account(store, msg.Source)
	if err != nil {
		return nil, err
	}
	err = h.control.Move(store, acct.Asset, msg.Source, msg.Destination, acct.Owner, msg.Amount)
	if err != nil {
		return nil, err
	}
	return &curio.DeliverResult{}, nil
}

// validate loads the message and ensures the source account owner
// signed the transaction
func (h SendHandler) validate(ctx curio.Context, store curio.KVStore, tx curio.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := curio.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	acct, err := h.control.Account(store, msg.Source)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, acct.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
