package escrow

import (
	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/orm"
	"github.com/iov-one/curio/x"
	"github.com/iov-one/curio/x/token"
)

const (
	// pay record and holding account allocation up-front
	createEscrowCost int64 = 300
	listEscrowCost   int64 = 50
	buyEscrowCost    int64 = 0
	returnEscrowCost int64 = 0
)

const (
	// FeeBPS is the beneficiary cut of every sale in basis points.
	FeeBPS = 400

	basisPoints = 10000
)

// feeSplit divides a price into the beneficiary fee and the seller
// share. Integer division truncates towards zero, the seller absorbs
// the remainder. Splitting the price into quotient and remainder
// keeps the intermediate products in range for any int64 price.
func feeSplit(price int64) (fee, seller int64) {
	fee = price/basisPoints*FeeBPS + price%basisPoints*FeeBPS/basisPoints
	return fee, price - fee
}

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r curio.Registry, auth x.Authenticator, control token.Controller) {
	bucket := NewBucket()

	r.Handle(&CreateMsg{}, CreateHandler{auth, bucket, control})
	r.Handle(&ListMsg{}, ListHandler{auth, bucket, control})
	r.Handle(&BuyMsg{}, BuyHandler{auth, bucket, control})
	r.Handle(&ReturnMsg{}, ReturnHandler{auth, bucket, control})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr curio.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateHandler allocates the record and the empty holding account
type CreateHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ curio.Handler = CreateHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h CreateHandler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &curio.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver writes the record at its derived address and creates the
// holding account under the canonical custody authority
func (h CreateHandler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := RecordAddress(msg.Owner, msg.Collectible)
	switch err := h.bucket.Has(db, key); {
	case err == nil:
		return nil, errors.Wrapf(ErrDuplicateListing, "escrow %s", key)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	_, lock, err := FindLockBump(msg.Owner, msg.Collectible)
	if err != nil {
		return nil, err
	}

	record := &Escrow{
		Owner:        msg.Owner,
		Collectible:  msg.Collectible,
		PaymentAsset: msg.PaymentAsset,
		Beneficiary:  msg.Beneficiary,
	}
	if err := h.bucket.Put(db, key, record); err != nil {
		return nil, errors.Wrap(err, "cannot store record")
	}

	holding := HoldingAddress(msg.Owner, msg.Collectible)
	if err := h.control.Create(db, holding, lock, msg.Collectible); err != nil {
		return nil, errors.Wrap(err, "cannot create holding account")
	}
	return &curio.DeliverResult{Data: key}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h CreateHandler) validate(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := curio.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	return &msg, nil
}

// ListHandler sets the price and takes custody of the collectible
type ListHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ curio.Handler = ListHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h ListHandler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &curio.CheckResult{GasAllocated: listEscrowCost}, nil
}

// Deliver stores the price and moves one unit of the collectible
// from the owner wallet into the holding account
func (h ListHandler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	msg, record, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	record.Price = msg.Price
	if len(msg.Beneficiary) != 0 {
		record.Beneficiary = msg.Beneficiary
	}
	if err := h.bucket.Put(db, msg.Escrow, record); err != nil {
		return nil, errors.Wrap(err, "cannot store record")
	}

	holding := HoldingAddress(record.Owner, record.Collectible)
	err = h.control.Move(db, record.Collectible, msg.Source, holding, record.Owner, 1)
	if err != nil {
		return nil, errors.Wrap(err, "cannot take custody")
	}
	return &curio.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h ListHandler) validate(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*ListMsg, *Escrow, error) {
	var msg ListMsg
	if err := curio.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var record Escrow
	if err := h.bucket.One(db, msg.Escrow, &record); err != nil {
		return nil, nil, errors.Wrapf(err, "escrow %s", msg.Escrow)
	}
	if !h.auth.HasAddress(ctx, record.Owner) {
		return nil, nil, errors.Wrap(ErrNotOwner, "owner signature missing")
	}
	if record.Price != 0 {
		return nil, nil, errors.Wrap(ErrDuplicateListing, "already listed")
	}
	return &msg, &record, nil
}

// BuyHandler settles a listed escrow
type BuyHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ curio.Handler = BuyHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h BuyHandler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &curio.CheckResult{GasAllocated: buyEscrowCost}, nil
}

// Deliver performs the payment transfers and then releases custody.
// Payments go first so the irreversible custody release happens only
// after the buyer funds cleared.
func (h BuyHandler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	msg, record, lock, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	buyer := x.MainSigner(ctx, h.auth).Address()

	fee, sellerDue := feeSplit(record.Price)
	err = h.control.Move(db, record.PaymentAsset, msg.BuyerPayment, record.Beneficiary, buyer, fee)
	if err != nil {
		return nil, errors.Wrap(err, "fee payment")
	}
	err = h.control.Move(db, record.PaymentAsset, msg.BuyerPayment, msg.SellerPayment, buyer, sellerDue)
	if err != nil {
		return nil, errors.Wrap(err, "seller payment")
	}

	if err := release(db, h.control, record, lock, msg.BuyerCollectible); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.Escrow); err != nil {
		return nil, errors.Wrap(err, "cannot retire record")
	}
	return &curio.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h BuyHandler) validate(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*BuyMsg, *Escrow, curio.Address, error) {
	var msg BuyMsg
	if err := curio.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "buyer signature missing")
	}
	var record Escrow
	if err := h.bucket.One(db, msg.Escrow, &record); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "escrow %s", msg.Escrow)
	}
	if !record.Owner.Equals(msg.Seller) {
		return nil, nil, nil, errors.Wrapf(ErrInvalidSeller, "record owner is %s", record.Owner)
	}
	if record.Price == 0 {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "collectible not listed")
	}
	lock, err := verifyLock(db, h.control, &record, msg.LockBump)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, &record, lock, nil
}

// ReturnHandler gives the collectible back to the owner
type ReturnHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	control token.Controller
}

var _ curio.Handler = ReturnHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h ReturnHandler) Check(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &curio.CheckResult{GasAllocated: returnEscrowCost}, nil
}

// Deliver releases custody back to the owner. No payment moves.
func (h ReturnHandler) Deliver(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*curio.DeliverResult, error) {
	msg, record, lock, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := release(db, h.control, record, lock, msg.Destination); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.Escrow); err != nil {
		return nil, errors.Wrap(err, "cannot retire record")
	}
	return &curio.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h ReturnHandler) validate(ctx curio.Context, db curio.KVStore, tx curio.Tx) (*ReturnMsg, *Escrow, curio.Address, error) {
	var msg ReturnMsg
	if err := curio.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	var record Escrow
	if err := h.bucket.One(db, msg.Escrow, &record); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "escrow %s", msg.Escrow)
	}
	if !h.auth.HasAddress(ctx, record.Owner) {
		return nil, nil, nil, errors.Wrap(ErrNotOwner, "owner signature missing")
	}
	lock, err := verifyLock(db, h.control, &record, msg.LockBump)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, &record, lock, nil
}

// verifyLock re-derives the custody authority from the caller bump
// and proves it is the one controlling the holding account
func verifyLock(db curio.KVStore, control token.Controller, record *Escrow, bump byte) (curio.Address, error) {
	lock, err := LockAddress(record.Owner, record.Collectible, bump)
	if err != nil {
		return nil, err
	}
	holding, err := control.Account(db, HoldingAddress(record.Owner, record.Collectible))
	if err != nil {
		return nil, err
	}
	if !holding.Owner.Equals(lock) {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "disambiguator %d does not derive the custody authority", bump)
	}
	return lock, nil
}

// release is the shared exit primitive for both settlement and
// cancellation: move the unit out of custody under the derived
// authority, then close the emptied holding account
func release(db curio.KVStore, control token.Controller, record *Escrow, lock curio.Address, dest curio.Address) error {
	holding := HoldingAddress(record.Owner, record.Collectible)
	if err := control.Move(db, record.Collectible, holding, dest, lock, 1); err != nil {
		return errors.Wrap(err, "cannot release custody")
	}
	if err := control.Close(db, holding, lock); err != nil {
		return errors.Wrap(err, "cannot close holding account")
	}
	return nil
}
