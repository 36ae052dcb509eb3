package token

import (
	"math"

	"github.com/iov-one/curio"
	"github.com/iov-one/curio/errors"
	"github.com/iov-one/curio/orm"
)

// Controller is the functionality needed by other extensions to
// settle payments and move assets. BaseController is the
// implementation, but you can create mocks against this interface.
type Controller interface {
	// Account loads the ledger entry stored under this address.
	// Returns ErrNotFound if no account exists there.
	Account(db curio.ReadOnlyKVStore, addr curio.Address) (*Account, error)

	// Balance returns the amount of the asset held at this address.
	Balance(db curio.ReadOnlyKVStore, addr curio.Address) (int64, error)

	// Create writes a new empty account under the given address,
	// controlled by the owner authority. Fails with ErrDuplicate if
	// the address is already taken.
	Create(db curio.KVStore, addr, owner curio.Address, asset AssetID) error

	// Issue credits the account at the given address, creating a
	// self-owned account when none exists yet. Used by the genesis
	// initializer and by tests to fund accounts.
	Issue(db curio.KVStore, addr curio.Address, asset AssetID, amount int64) error

	// Move transfers amount of the asset between two existing
	// accounts. The authority must be the owner of the source
	// account. A zero amount is a no-op.
	Move(db curio.KVStore, asset AssetID, src, dest, authority curio.Address, amount int64) error

	// Close removes an emptied account. The authority must be the
	// account owner and the balance must be zero.
	Close(db curio.KVStore, addr, authority curio.Address) error
}

// BaseController implements the ledger. It is stateless apart from
// the bucket prefix and safe to recreate on every use.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a ledger controller over the default bucket
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Account(db curio.ReadOnlyKVStore, addr curio.Address) (*Account, error) {
	var acct Account
	if err := c.bucket.One(db, addr, &acct); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acct, nil
}

func (c BaseController) Balance(db curio.ReadOnlyKVStore, addr curio.Address) (int64, error) {
	acct, err := c.Account(db, addr)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

func (c BaseController) Create(db curio.KVStore, addr, owner curio.Address, asset AssetID) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	acct := Account{
		Owner: owner,
		Asset: asset,
	}
	return c.bucket.Put(db, addr, &acct)
}

func (c BaseController) Issue(db curio.KVStore, addr curio.Address, asset AssetID, amount int64) error {
	if amount < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative issue: %d", amount)
	}
	var acct Account
	switch err := c.bucket.One(db, addr, &acct); {
	case errors.ErrNotFound.Is(err):
		acct = Account{Owner: addr, Asset: asset}
	case err != nil:
		return err
	case !acct.Asset.Equals(asset):
		return errors.Wrapf(ErrAssetMismatch, "account %s holds %s", addr, acct.Asset)
	}
	if acct.Balance > math.MaxInt64-amount {
		return errors.Wrapf(errors.ErrOverflow, "account %s", addr)
	}
	acct.Balance += amount
	return c.bucket.Put(db, addr, &acct)
}

func (c BaseController) Move(db curio.KVStore, asset AssetID, src, dest, authority curio.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrapf(errors.ErrAmount, "negative transfer: %d", amount)
	}
	if amount == 0 {
		return nil
	}

	var sender Account
	if err := c.bucket.One(db, src, &sender); err != nil {
		return errors.Wrapf(err, "source %s", src)
	}
	if !sender.Asset.Equals(asset) {
		return errors.Wrapf(ErrAssetMismatch, "source %s holds %s", src, sender.Asset)
	}
	if !sender.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not control source account", authority)
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient balance: %d < %d", sender.Balance, amount)
	}

	var recipient Account
	if err := c.bucket.One(db, dest, &recipient); err != nil {
		return errors.Wrapf(err, "destination %s", dest)
	}
	if !recipient.Asset.Equals(asset) {
		return errors.Wrapf(ErrAssetMismatch, "destination %s holds %s", dest, recipient.Asset)
	}
	if recipient.Balance > math.MaxInt64-amount {
		return errors.Wrapf(errors.ErrOverflow, "destination %s", dest)
	}

	sender.Balance -= amount
	recipient.Balance += amount
	if err := c.bucket.Put(db, src, &sender); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, &recipient)
}

func (c BaseController) Close(db curio.KVStore, addr, authority curio.Address) error {
	var acct Account
	if err := c.bucket.One(db, addr, &acct); err != nil {
		return errors.Wrapf(err, "account %s", addr)
	}
	if !acct.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s does not control account", authority)
	}
	if acct.Balance != 0 {
		return errors.Wrapf(ErrNonEmptyAccount, "balance %d", acct.Balance)
	}
	return c.bucket.Delete(db, addr)
}
